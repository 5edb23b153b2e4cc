package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"projadm/internal/models"
)

type memTokens struct {
	token   string
	cleared bool
}

func (m *memTokens) Token() string              { return m.token }
func (m *memTokens) SetToken(token string) error { m.token = token; return nil }
func (m *memTokens) ClearToken() error           { m.token = ""; m.cleared = true; return nil }

func newTestClient(t *testing.T, handler http.Handler) (*Client, *memTokens) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tokens := &memTokens{token: "tok-123"}
	return New(srv.URL, 5*time.Second, tokens, zap.NewNop()), tokens
}

func TestProtectedRequestCarriesBearerToken(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]models.Project{})
	}))

	if _, err := client.ListProjects(context.Background()); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
}

func TestLoginIsPublicAndPersistsToken(t *testing.T) {
	var gotAuth, gotPath string
	client, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path

		var creds models.Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Errorf("decode credentials: %v", err)
		}
		if creds.Email != "admin@example.com" {
			t.Errorf("unexpected email %q", creds.Email)
		}
		json.NewEncoder(w).Encode(models.LoginResponse{AccessToken: "fresh-token"})
	}))
	tokens.token = ""

	resp, err := client.Login(context.Background(), models.Credentials{
		Email:    "admin@example.com",
		Password: "secret",
	})
	if err != nil {
		t.Fatal(err)
	}
	if gotPath != "/auth/login" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotAuth != "" {
		t.Errorf("login must not send a bearer token, got %q", gotAuth)
	}
	if resp.AccessToken != "fresh-token" || tokens.token != "fresh-token" {
		t.Errorf("token not persisted: resp=%q stored=%q", resp.AccessToken, tokens.token)
	}
}

func TestUnauthorizedClearsTokenAndFiresCallback(t *testing.T) {
	client, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"message": "token expired"})
	}))

	fired := false
	client.OnUnauthorized(func() { fired = true })

	_, err := client.ListProjects(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	if !fired {
		t.Error("unauthorized callback must fire")
	}
	if !tokens.cleared || tokens.token != "" {
		t.Error("token must be cleared")
	}
	if msg := UserMessage(err); msg != "token expired" {
		t.Errorf("unexpected user message %q", msg)
	}
}

func TestFailedLoginDoesNotLogOut(t *testing.T) {
	client, tokens := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "bad credentials"})
	}))

	fired := false
	client.OnUnauthorized(func() { fired = true })

	_, err := client.Login(context.Background(), models.Credentials{Email: "a@b.c", Password: "x"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if fired {
		t.Error("a rejected login must not trigger the session-expired flow")
	}
	if tokens.cleared {
		t.Error("a rejected login must not clear the stored token")
	}
}

func TestErrorMessageFallsBackToErrorField(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "nom is required"})
	}))

	_, err := client.CreateBeneficiary(context.Background(), models.BeneficiaryPayload{})
	if err == nil {
		t.Fatal("expected an error")
	}
	if msg := UserMessage(err); msg != "nom is required" {
		t.Errorf("unexpected user message %q", msg)
	}
}

func TestErrorMessageFallsBackToStatusText(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.ListProjects(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	if msg := UserMessage(err); msg != "Internal Server Error" {
		t.Errorf("unexpected user message %q", msg)
	}
}

func TestUserMessageForTransportError(t *testing.T) {
	tokens := &memTokens{}
	client := New("http://127.0.0.1:1", 50*time.Millisecond, tokens, zap.NewNop())

	_, err := client.ListProjects(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	if msg := UserMessage(err); msg != "network error, request did not complete" {
		t.Errorf("unexpected user message %q", msg)
	}
}

func TestCreateBeneficiaryRoundTrip(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/beneficiaires" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var p models.BeneficiaryPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		json.NewEncoder(w).Encode(models.Beneficiary{
			ID:      "b-1",
			Nom:     p.Nom,
			Address: p.Address,
			Tel:     p.Tel,
		})
	}))

	got, err := client.CreateBeneficiary(context.Background(), models.BeneficiaryPayload{
		Nom:     "Commune de Thiès",
		Address: "Thiès",
		Tel:     "77 000 00 00",
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "b-1" || got.Nom != "Commune de Thiès" {
		t.Fatalf("unexpected beneficiary %+v", got)
	}
}

func TestUpdateProjectUsesPut(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/projects/p-9" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(models.Project{ID: "p-9", Nom: "Renamed"})
	}))

	got, err := client.UpdateProject(context.Background(), "p-9", models.ProjectPayload{Nom: "Renamed"})
	if err != nil {
		t.Fatal(err)
	}
	if got.Nom != "Renamed" {
		t.Fatalf("unexpected project %+v", got)
	}
}

func TestDeleteExpertSendsDelete(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/experts/e-2" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))

	if err := client.DeleteExpert(context.Background(), "e-2"); err != nil {
		t.Fatal(err)
	}
}

func TestListFinancesFiltersByProject(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/operations-finance" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("filter"); got != "project.id||eq||p-7" {
			t.Errorf("unexpected filter %q", got)
		}
		json.NewEncoder(w).Encode([]models.FinanceOperation{
			{ID: "f-1", LibelleFinan: "Achat matériel", Depense: 100, MontantEntree: 250, ProjectID: "p-7"},
		})
	}))

	got, err := client.ListFinances(context.Background(), "p-7")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Gain() != 150 {
		t.Fatalf("unexpected operations %+v", got)
	}
}
