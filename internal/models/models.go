package models

import "time"

// ProjectStatus is the lifecycle state of a project
type ProjectStatus string

const (
	StatusActive    ProjectStatus = "active"
	StatusCompleted ProjectStatus = "completed"
	StatusOnHold    ProjectStatus = "on-hold"
	StatusCancelled ProjectStatus = "cancelled"
)

// ProjectType is the category of a project
type ProjectType string

const (
	TypeDevelopment ProjectType = "development"
	TypeDesign      ProjectType = "design"
	TypeMarketing   ProjectType = "marketing"
	TypeResearch    ProjectType = "research"
)

// ProjectStatuses lists every valid status, in form/filter order
var ProjectStatuses = []ProjectStatus{StatusActive, StatusCompleted, StatusOnHold, StatusCancelled}

// ProjectTypes lists every valid type, in form/filter order
var ProjectTypes = []ProjectType{TypeDevelopment, TypeDesign, TypeMarketing, TypeResearch}

// Project represents a managed project as served by the API.
// Field names follow the server schema (French labels).
type Project struct {
	ID              string        `json:"id"`
	Nom             string        `json:"nom"`
	Description     string        `json:"description"`
	Status          ProjectStatus `json:"status"`
	TypeProjet      ProjectType   `json:"type_projet"`
	Budget          float64       `json:"budget"`
	DateAcquisition string        `json:"date_acquisition"`
	DateDebut       string        `json:"date_debut"`
	DateFin         string        `json:"date_fin"`
	DateCloture     string        `json:"date_cloture"`
	BeneficiaireID  string        `json:"beneficiaire_id"`
	ExpertID        string        `json:"expert_id"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// ProjectPayload is the write shape for POST/PUT projects
type ProjectPayload struct {
	Nom             string        `json:"nom" validate:"required"`
	Description     string        `json:"description"`
	Status          ProjectStatus `json:"status" validate:"required,oneof=active completed on-hold cancelled"`
	TypeProjet      ProjectType   `json:"type_projet" validate:"required,oneof=development design marketing research"`
	Budget          float64       `json:"budget" validate:"gte=0"`
	DateAcquisition string        `json:"date_acquisition" validate:"required"`
	DateDebut       string        `json:"date_debut" validate:"required"`
	DateFin         string        `json:"date_fin"`
	DateCloture     string        `json:"date_cloture"`
	BeneficiaireID  string        `json:"beneficiaire_id" validate:"required"`
	ExpertID        string        `json:"expert_id" validate:"required"`
}

// Beneficiary is an organization or person a project serves
type Beneficiary struct {
	ID        string    `json:"id"`
	Nom       string    `json:"nom"`
	Address   string    `json:"address"`
	Tel       string    `json:"tel"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeneficiaryPayload is the write shape for POST/PUT beneficiaires
type BeneficiaryPayload struct {
	Nom     string `json:"nom" validate:"required"`
	Address string `json:"address" validate:"required"`
	Tel     string `json:"tel" validate:"required"`
}

// Expert is a specialist assignable to projects
type Expert struct {
	ID         string    `json:"id"`
	Nom        string    `json:"nom"`
	Specialite string    `json:"specialite"`
	Tel        string    `json:"tel"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ExpertPayload is the write shape for POST/PUT experts
type ExpertPayload struct {
	Nom        string `json:"nom" validate:"required"`
	Specialite string `json:"specialite" validate:"required"`
	Tel        string `json:"tel" validate:"required"`
}

// FinanceOperation is a money movement recorded against a project
type FinanceOperation struct {
	ID            string    `json:"id"`
	LibelleFinan  string    `json:"libelle_finan"`
	Depense       float64   `json:"depense"`
	MontantEntree float64   `json:"montant_entree"`
	Observation   string    `json:"observation"`
	ProjectID     string    `json:"project_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Gain is the derived net amount: income minus expense
func (f FinanceOperation) Gain() float64 {
	return f.MontantEntree - f.Depense
}

// FinancePayload is the write shape for POST/PUT operations-finance
type FinancePayload struct {
	LibelleFinan  string  `json:"libelle_finan" validate:"required"`
	Depense       float64 `json:"depense" validate:"gte=0"`
	MontantEntree float64 `json:"montant_entree" validate:"gte=0"`
	Observation   string  `json:"observation"`
	ProjectID     string  `json:"project_id" validate:"required"`
}

// TechniqueOperation is a dated technical activity on a project
type TechniqueOperation struct {
	ID        string    `json:"id"`
	Libelle   string    `json:"libelle"`
	DateDebut string    `json:"date_debut"`
	DateFin   string    `json:"date_fin"`
	ProjectID string    `json:"project_id"`
	ExpertID  string    `json:"expert_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TechniquePayload is the write shape for POST/PUT operations-techniques
type TechniquePayload struct {
	Libelle   string `json:"libelle" validate:"required"`
	DateDebut string `json:"date_debut" validate:"required"`
	DateFin   string `json:"date_fin"`
	ProjectID string `json:"project_id" validate:"required"`
	ExpertID  string `json:"expert_id"`
}

// User is a dashboard account
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserPayload is the write shape for POST users. Password is write-only
// and sent on create only; updates go through UserUpdatePayload.
type UserPayload struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required"`
}

// UserUpdatePayload is the write shape for PUT users/:id
type UserUpdatePayload struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required"`
}

// Credentials is the login request body
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the access token returned by auth/login
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
}

// TaskStatus is the workflow state of a task
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in-progress"
	TaskReview     TaskStatus = "review"
	TaskDone       TaskStatus = "done"
)

// TaskPriority is the urgency of a task
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Task is a project work item. Tasks live only in the local mock store;
// the server does not persist them.
type Task struct {
	ID          string
	ProjectID   string
	Title       string
	Description string
	Assignee    User
	DueDate     *time.Time
	Status      TaskStatus
	Priority    TaskPriority
	CreatedAt   time.Time
}

// File is an uploaded document attached to a project. Like tasks, files
// live only in the local mock store.
type File struct {
	ID           string
	ProjectID    string
	Name         string
	Type         string
	Size         int64
	URL          string
	ThumbnailURL string
	UploadedAt   time.Time
	UploadedBy   User
}
