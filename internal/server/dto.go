package server

import (
	"hunter-tracker/internal/domain"
	"hunter-tracker/internal/service"
	"time"
)

type createHunterRequest struct {
	DisplayName string  `json:"display_name"`
	Email       *string `json:"email"`
}

type createQuestRequest struct {
	HunterID    string         `json:"hunter_id"`
	Title       string         `json:"title"`
	Description *string        `json:"description"`
	Type        string         `json:"type"`
	ExpReward   *int           `json:"exp_reward"`
	StatReward  map[string]int `json:"stat_reward"`
	DueDate     *time.Time     `json:"due_date"`
}

func (r createQuestRequest) toInput() service.CreateQuestInput {
	return service.CreateQuestInput{
		HunterID:    r.HunterID,
		Title:       r.Title,
		Description: r.Description,
		Type:        domain.QuestType(r.Type),
		ExpReward:   r.ExpReward,
		StatReward:  r.StatReward,
		DueDate:     r.DueDate,
	}
}

type hunterResponse struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       *string   `json:"email"`
	Rank        string    `json:"rank"`
	Level       int       `json:"level"`
	Exp         int       `json:"exp"`
	TotalExp    int       `json:"total_exp"`
	Energy      int       `json:"energy"`
	Title       *string   `json:"title"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toHunterResponse(h *domain.Hunter) hunterResponse {
	return hunterResponse{
		ID:          h.ID,
		DisplayName: h.DisplayName,
		Email:       h.Email,
		Rank:        string(h.Rank),
		Level:       h.Level,
		Exp:         h.Exp,
		TotalExp:    h.TotalExp,
		Energy:      h.Energy,
		Title:       h.Title,
		CreatedAt:   h.CreatedAt,
		UpdatedAt:   h.UpdatedAt,
	}
}

// toStatsResponse flattens the counters next to the record fields, e.g.
// {"id": "...", "hunter_id": "...", "STR": 1, ...}.
func toStatsResponse(s *domain.Stats) map[string]any {
	out := make(map[string]any, len(s.Counters)+4)
	for name, value := range s.Counters {
		out[name] = value
	}
	out["id"] = s.ID
	out["hunter_id"] = s.HunterID
	out["created_at"] = s.CreatedAt
	out["updated_at"] = s.UpdatedAt
	return out
}

type questResponse struct {
	ID          string         `json:"id"`
	HunterID    string         `json:"hunter_id"`
	Title       string         `json:"title"`
	Description *string        `json:"description"`
	Type        string         `json:"type"`
	ExpReward   int            `json:"exp_reward"`
	StatReward  map[string]int `json:"stat_reward"`
	Status      string         `json:"status"`
	DueDate     *time.Time     `json:"due_date"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func toQuestResponse(q *domain.Quest) questResponse {
	reward := q.StatReward
	if reward == nil {
		reward = map[string]int{}
	}
	return questResponse{
		ID:          q.ID,
		HunterID:    q.HunterID,
		Title:       q.Title,
		Description: q.Description,
		Type:        string(q.Type),
		ExpReward:   q.ExpReward,
		StatReward:  reward,
		Status:      string(q.Status),
		DueDate:     q.DueDate,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
}

type logResponse struct {
	ID        string    `json:"id"`
	HunterID  string    `json:"hunter_id"`
	Message   string    `json:"message"`
	Level     string    `json:"level"`
	CreatedAt time.Time `json:"created_at"`
}

func toLogResponse(l *domain.LogEntry) logResponse {
	return logResponse{
		ID:        l.ID,
		HunterID:  l.HunterID,
		Message:   l.Message,
		Level:     string(l.Level),
		CreatedAt: l.CreatedAt,
	}
}

type statusResponse struct {
	Status string `json:"status"`
}

// claimResponse omits the progression fields when the claim was a no-op.
type claimResponse struct {
	Status    string `json:"status"`
	Level     int    `json:"level,omitempty"`
	Rank      string `json:"rank,omitempty"`
	Exp       *int   `json:"exp,omitempty"`
	TotalExp  *int   `json:"total_exp,omitempty"`
	LeveledUp *bool  `json:"leveled_up,omitempty"`
}

func toClaimResponse(r *service.ClaimResult) claimResponse {
	resp := claimResponse{Status: string(r.Status)}
	if !r.Awarded {
		return resp
	}
	exp, total, leveled := r.Exp, r.TotalExp, r.LeveledUp
	resp.Level = r.Level
	resp.Rank = string(r.Rank)
	resp.Exp = &exp
	resp.TotalExp = &total
	resp.LeveledUp = &leveled
	return resp
}

type diagnosticsResponse struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	Driver           string   `json:"driver"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

func toDiagnosticsResponse(r service.DiagnosticsReport) diagnosticsResponse {
	return diagnosticsResponse{
		Backend:          r.Backend,
		Database:         r.Database,
		DatabaseURL:      r.DatabaseURL,
		DatabaseName:     r.DatabaseName,
		Driver:           r.Driver,
		ConnectionStatus: r.ConnectionStatus,
		Collections:      r.Collections,
	}
}

type errorResponse struct {
	Detail string `json:"detail"`
}
