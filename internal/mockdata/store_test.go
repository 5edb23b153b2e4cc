package mockdata

import (
	"testing"

	"projadm/internal/models"
)

func TestTasksSeedOncePerProject(t *testing.T) {
	s := NewStore()

	first := s.Tasks("p-1")
	if len(first) == 0 {
		t.Fatal("expected seeded tasks")
	}

	second := s.Tasks("p-1")
	if len(second) != len(first) {
		t.Fatalf("reread changed the set: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("task %d regenerated", i)
		}
	}

	other := s.Tasks("p-2")
	if len(other) > 0 && len(first) > 0 && other[0].ID == first[0].ID {
		t.Fatal("projects must not share task sets")
	}
}

func TestTaskLifecycle(t *testing.T) {
	s := NewStore()
	before := len(s.Tasks("p-1"))

	created := s.CreateTask("p-1", models.Task{
		Title:    "Write report",
		Status:   models.TaskTodo,
		Priority: models.PriorityHigh,
	})
	if created.ID == "" {
		t.Fatal("create must assign an id")
	}
	if created.CreatedAt.IsZero() {
		t.Fatal("create must stamp the creation time")
	}
	if len(s.Tasks("p-1")) != before+1 {
		t.Fatal("create must grow the set by one")
	}

	created.Status = models.TaskDone
	if !s.UpdateTask("p-1", created) {
		t.Fatal("update must find the task")
	}
	for _, task := range s.Tasks("p-1") {
		if task.ID == created.ID && task.Status != models.TaskDone {
			t.Fatal("update must persist the new status")
		}
	}

	if !s.DeleteTask("p-1", created.ID) {
		t.Fatal("delete must find the task")
	}
	if len(s.Tasks("p-1")) != before {
		t.Fatal("delete must shrink the set by one")
	}
	if s.DeleteTask("p-1", created.ID) {
		t.Fatal("second delete must report missing")
	}
}

func TestUpdateTaskKeepsCreationTime(t *testing.T) {
	s := NewStore()
	created := s.CreateTask("p-1", models.Task{Title: "A"})

	modified := created
	modified.Title = "B"
	modified.CreatedAt = created.CreatedAt.AddDate(1, 0, 0)
	if !s.UpdateTask("p-1", modified) {
		t.Fatal("update must find the task")
	}

	for _, task := range s.Tasks("p-1") {
		if task.ID == created.ID {
			if !task.CreatedAt.Equal(created.CreatedAt) {
				t.Fatal("update must not change the creation time")
			}
			if task.Title != "B" {
				t.Fatal("update must apply the new title")
			}
		}
	}
}

func TestFileLifecycle(t *testing.T) {
	s := NewStore()
	before := len(s.Files("p-3"))

	added := s.AddFile("p-3", models.File{Name: "budget.pdf", Type: "application/pdf"})
	if added.ID == "" || added.UploadedAt.IsZero() {
		t.Fatalf("add must assign id and upload time: %+v", added)
	}
	if len(s.Files("p-3")) != before+1 {
		t.Fatal("add must grow the set by one")
	}

	if !s.DeleteFile("p-3", added.ID) {
		t.Fatal("delete must find the file")
	}
	if len(s.Files("p-3")) != before {
		t.Fatal("delete must shrink the set by one")
	}
}

func TestReturnedSlicesAreCopies(t *testing.T) {
	s := NewStore()

	tasks := s.Tasks("p-1")
	if len(tasks) == 0 {
		t.Skip("seed produced no tasks")
	}
	tasks[0].Title = "mutated"

	if s.Tasks("p-1")[0].Title == "mutated" {
		t.Fatal("caller mutations must not leak into the store")
	}
}

func TestUsersAreFixed(t *testing.T) {
	s := NewStore()
	users := s.Users()
	if len(users) != 4 {
		t.Fatalf("expected 4 sample users, got %d", len(users))
	}
}
