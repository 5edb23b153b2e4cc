package mockdata

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"projadm/internal/models"
)

// Store keeps tasks and files in memory. The server never persists either;
// they exist to flesh out the project detail view and are regenerated per
// run. Safe for use from command goroutines.
type Store struct {
	mu    sync.Mutex
	rng   *rand.Rand
	users []models.User
	tasks map[string][]models.Task
	files map[string][]models.File
}

// NewStore creates a mock store with a fixed set of sample users.
func NewStore() *Store {
	return &Store{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		users: []models.User{
			{ID: "user-1", Name: "Alex Johnson", Email: "alex@example.com", Role: "admin"},
			{ID: "user-2", Name: "Jamie Smith", Email: "jamie@example.com", Role: "manager"},
			{ID: "user-3", Name: "Taylor Wilson", Email: "taylor@example.com", Role: "member"},
			{ID: "user-4", Name: "Morgan Lee", Email: "morgan@example.com", Role: "member"},
		},
		tasks: make(map[string][]models.Task),
		files: make(map[string][]models.File),
	}
}

// Tasks returns the tasks for a project, seeding sample data on first use.
func (s *Store) Tasks(projectID string) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seed(projectID)
	return append([]models.Task(nil), s.tasks[projectID]...)
}

// CreateTask adds a task, assigning its id and creation time.
func (s *Store) CreateTask(projectID string, t models.Task) models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seed(projectID)

	t.ID = uuid.NewString()
	t.ProjectID = projectID
	t.CreatedAt = time.Now()
	s.tasks[projectID] = append(s.tasks[projectID], t)
	return t
}

// UpdateTask replaces the stored task with the same ID. Returns false when
// the task is gone.
func (s *Store) UpdateTask(projectID string, t models.Task) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.tasks[projectID] {
		if existing.ID == t.ID {
			t.ProjectID = projectID
			t.CreatedAt = existing.CreatedAt
			s.tasks[projectID][i] = t
			return true
		}
	}
	return false
}

// DeleteTask removes a task by ID
func (s *Store) DeleteTask(projectID, taskID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := s.tasks[projectID]
	for i, t := range tasks {
		if t.ID == taskID {
			s.tasks[projectID] = append(tasks[:i], tasks[i+1:]...)
			return true
		}
	}
	return false
}

// Files returns the files for a project, seeding sample data on first use.
func (s *Store) Files(projectID string) []models.File {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seed(projectID)
	return append([]models.File(nil), s.files[projectID]...)
}

// AddFile registers a file, assigning its id and upload time.
func (s *Store) AddFile(projectID string, f models.File) models.File {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seed(projectID)

	f.ID = uuid.NewString()
	f.ProjectID = projectID
	f.UploadedAt = time.Now()
	s.files[projectID] = append(s.files[projectID], f)
	return f
}

// DeleteFile removes a file by ID
func (s *Store) DeleteFile(projectID, fileID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	files := s.files[projectID]
	for i, f := range files {
		if f.ID == fileID {
			s.files[projectID] = append(files[:i], files[i+1:]...)
			return true
		}
	}
	return false
}

// Users returns the sample assignees
func (s *Store) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.User(nil), s.users...)
}

var (
	taskStatuses = []models.TaskStatus{models.TaskTodo, models.TaskInProgress, models.TaskReview, models.TaskDone}
	priorities   = []models.TaskPriority{models.PriorityLow, models.PriorityMedium, models.PriorityHigh}
	fileTypes    = []string{"image/jpeg", "image/png", "application/pdf", "text/plain"}
	fileLabels   = []string{"Document", "Screenshot", "Report", "Mockup"}
)

// seed must be called with the mutex held
func (s *Store) seed(projectID string) {
	if _, ok := s.tasks[projectID]; ok {
		return
	}

	created := time.Now().AddDate(0, 0, -s.rng.Intn(90))

	tasks := make([]models.Task, 0, 6)
	for i := 0; i < s.rng.Intn(5)+2; i++ {
		var due *time.Time
		if s.rng.Float64() > 0.2 {
			d := time.Now().AddDate(0, 0, s.rng.Intn(14)-7)
			due = &d
		}
		tasks = append(tasks, models.Task{
			ID:          uuid.NewString(),
			ProjectID:   projectID,
			Title:       fmt.Sprintf("Task %d", i+1),
			Description: fmt.Sprintf("Sample work item %d for this project.", i+1),
			Assignee:    s.users[s.rng.Intn(len(s.users))],
			DueDate:     due,
			Status:      taskStatuses[s.rng.Intn(len(taskStatuses))],
			Priority:    priorities[s.rng.Intn(len(priorities))],
			CreatedAt:   created.AddDate(0, 0, s.rng.Intn(10)),
		})
	}
	s.tasks[projectID] = tasks

	files := make([]models.File, 0, 4)
	for i := 0; i < s.rng.Intn(4)+1; i++ {
		fileType := fileTypes[s.rng.Intn(len(fileTypes))]
		files = append(files, models.File{
			ID:         uuid.NewString(),
			ProjectID:  projectID,
			Name:       fmt.Sprintf("%s-%d", fileLabels[s.rng.Intn(len(fileLabels))], i+1),
			Type:       fileType,
			Size:       int64(s.rng.Intn(5000)+50) * 1024,
			URL:        "#",
			UploadedAt: created.AddDate(0, 0, s.rng.Intn(20)),
			UploadedBy: s.users[s.rng.Intn(len(s.users))],
		})
	}
	s.files[projectID] = files
}
