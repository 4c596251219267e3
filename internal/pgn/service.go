package pgn

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Vovarama1992/pgn-chatbot/internal/ai"
)

const statusOK = "ok"

type service struct {
	repo    Repo
	ai      ai.AI
	offices []Office
	logger  *zap.Logger
	now     func() time.Time
}

// NewService builds the chat API service. aiClient may be nil, in which case
// unrecognised messages get the static reply.
func NewService(repo Repo, aiClient ai.AI, logger *zap.Logger) Service {
	return &service{
		repo:    repo,
		ai:      aiClient,
		offices: defaultOffices(),
		logger:  logger,
		now:     time.Now,
	}
}

func (s *service) Chat(ctx context.Context, message string) ChatOut {
	intent := DetectIntent(message)

	switch intent {
	case IntentHours:
		return ChatOut{Status: statusOK, Intent: intent, Reply: OfficialHours}

	case IntentOffices:
		hint := "Puedes pedir: 'Sedes en Guatemala', 'Ubicación sedes Quetzaltenango'."
		reply := fmt.Sprintf("Tengo %d sedes registradas. %s También: /api/sedes?departamento=Guatemala",
			len(s.offices), hint)
		return ChatOut{Status: statusOK, Intent: intent, Reply: reply}

	case IntentComplaint:
		example, _ := json.Marshal(complaintExample())
		return ChatOut{
			Status: statusOK,
			Intent: intent,
			Reply:  "Envía POST a /api/denuncias con JSON similar a: " + string(example),
		}
	}

	return ChatOut{Status: statusOK, Intent: IntentUnknown, Reply: s.fallback(ctx, message)}
}

func (s *service) fallback(ctx context.Context, message string) string {
	if s.ai == nil || strings.TrimSpace(message) == "" {
		return unknownReply
	}

	reply, err := s.ai.GetReply(ctx, FallbackPrompt, message)
	if err != nil {
		s.logger.Warn("ai fallback failed", zap.Error(err))
		return unknownReply
	}
	return reply
}

func (s *service) Hours() SimpleReply {
	return SimpleReply{Status: statusOK, Reply: OfficialHours}
}

// Offices returns every office, or those in department (case-insensitive).
func (s *service) Offices(department string) []Office {
	department = strings.TrimSpace(department)

	out := make([]Office, 0, len(s.offices))
	for _, o := range s.offices {
		if department == "" || strings.EqualFold(o.Department, department) {
			out = append(out, o)
		}
	}
	return out
}

func (s *service) FileComplaint(ctx context.Context, in ComplaintIn) (*Complaint, error) {
	in = normalizeComplaint(in)
	if err := validateComplaint(in); err != nil {
		return nil, err
	}

	c := &Complaint{ComplaintIn: in, CreatedAt: s.now().UTC()}
	if err := s.repo.SaveComplaint(ctx, c); err != nil {
		return nil, errors.Wrap(err, "save complaint")
	}

	s.logger.Info("complaint registered", zap.Int64("id", c.ID), zap.String("tipo", c.Type))
	return c, nil
}

func normalizeComplaint(in ComplaintIn) ComplaintIn {
	in.Name = strings.TrimSpace(in.Name)
	in.Type = strings.TrimSpace(in.Type)
	in.Description = strings.TrimSpace(in.Description)
	in.DPI = trimOptional(in.DPI)
	in.Phone = trimOptional(in.Phone)
	in.Department = trimOptional(in.Department)
	return in
}

func trimOptional(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

func validateComplaint(in ComplaintIn) error {
	fields := map[string]string{}

	required := []struct {
		name, val string
	}{
		{"nombre", in.Name},
		{"tipo", in.Type},
		{"descripcion", in.Description},
	}
	for _, f := range required {
		if f.val == "" {
			fields[f.name] = "campo requerido"
		}
	}

	limits := []struct {
		name string
		val  *string
		max  int
	}{
		{"nombre", &in.Name, 120},
		{"dpi", in.DPI, 30},
		{"telefono", in.Phone, 30},
		{"departamento", in.Department, 60},
		{"tipo", &in.Type, 80},
	}
	for _, l := range limits {
		if l.val != nil && utf8.RuneCountInString(*l.val) > l.max {
			fields[l.name] = fmt.Sprintf("máximo %d caracteres", l.max)
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func complaintExample() ComplaintIn {
	return ComplaintIn{
		Name:        "Juan Pérez",
		DPI:         strPtr("1234567890101"),
		Phone:       strPtr("5555-5555"),
		Department:  strPtr("Guatemala"),
		Type:        "violencia",
		Description: "Descripción breve...",
	}
}

func defaultOffices() []Office {
	hours := "Lunes a viernes de 8:00 a 16:00"
	return []Office{
		{
			Department: "Guatemala",
			Name:       "Sede Central PGN",
			Address:    "Zona 1, Ciudad de Guatemala",
			Phone:      strPtr("1234-5678"),
			Hours:      strPtr(hours),
			Lat:        floatPtr(14.6349),
			Lng:        floatPtr(-90.5069),
		},
		{
			Department: "Quetzaltenango",
			Name:       "Sede PGN Quetzaltenango",
			Address:    "Zona 3, Quetzaltenango",
			Phone:      strPtr("7766-1122"),
			Hours:      strPtr(hours),
			Lat:        floatPtr(14.8347),
			Lng:        floatPtr(-91.5180),
		},
		{
			Department: "Huehuetenango",
			Name:       "Sede PGN Huehuetenango",
			Address:    "Zona 1, Huehuetenango",
			Phone:      strPtr("7765-0099"),
			Hours:      strPtr(hours),
			Lat:        floatPtr(15.3190),
			Lng:        floatPtr(-91.4700),
		},
	}
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }
