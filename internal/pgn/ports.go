package pgn

import (
	"context"
	"time"
)

type Intent string

const (
	IntentHours     Intent = "consulta_horarios"
	IntentOffices   Intent = "ubicacion_sedes"
	IntentComplaint Intent = "denuncia_preliminar"
	IntentUnknown   Intent = "desconocido"
)

type ChatIn struct {
	Message string `json:"mensaje"`
}

type ChatOut struct {
	Status string `json:"status"`
	Intent Intent `json:"intent_detectado"`
	Reply  string `json:"respuesta"`
}

type SimpleReply struct {
	Status string `json:"status"`
	Reply  string `json:"respuesta"`
}

// Office is a PGN branch (sede).
type Office struct {
	Department string   `json:"departamento"`
	Name       string   `json:"nombre_sede"`
	Address    string   `json:"direccion"`
	Phone      *string  `json:"telefono"`
	Hours      *string  `json:"horario"`
	Lat        *float64 `json:"lat"`
	Lng        *float64 `json:"lng"`
}

type OfficesReply struct {
	Status  string   `json:"status"`
	Offices []Office `json:"sedes"`
}

// ComplaintIn is a preliminary complaint (denuncia) as filed by a citizen.
type ComplaintIn struct {
	Name        string  `json:"nombre"`
	DPI         *string `json:"dpi"`
	Phone       *string `json:"telefono"`
	Department  *string `json:"departamento"`
	Type        string  `json:"tipo"`
	Description string  `json:"descripcion"`
}

type Complaint struct {
	ID int64
	ComplaintIn
	CreatedAt time.Time
}

type ComplaintOut struct {
	Status  string `json:"status"`
	ID      int64  `json:"id"`
	Message string `json:"mensaje"`
}

// Repo persists complaints.
type Repo interface {
	SaveComplaint(ctx context.Context, c *Complaint) error
}

type Service interface {
	Chat(ctx context.Context, message string) ChatOut
	Hours() SimpleReply
	Offices(department string) []Office
	FileComplaint(ctx context.Context, in ComplaintIn) (*Complaint, error)
}

// ValidationError lists offending fields.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
