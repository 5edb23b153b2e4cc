package views

import (
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"projadm/internal/api"
	"projadm/internal/mockdata"
	"projadm/internal/query"
	"projadm/internal/store"
)

// Deps bundles the collaborators every view needs. Built once in main and
// handed to the app; views never reach for globals.
type Deps struct {
	Client   *api.Client
	Cache    *query.Cache
	Mutator  *query.Mutator
	Mock     *mockdata.Store
	Settings *store.Store
	Validate *validator.Validate
	Log      *zap.Logger
}

// opTimeout bounds a single fetch or mutation command
const opTimeout = 60 * time.Second
