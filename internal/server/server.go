package server

import (
	"hunter-tracker/internal/domain"
	"hunter-tracker/internal/service"
	"net/http"

	"github.com/rs/zerolog"
)

type HunterServer struct {
	hunterSvc      *service.HunterService
	questSvc       *service.QuestService
	logSvc         *service.LogService
	seedSvc        *service.SeedService
	diagnosticsSvc *service.DiagnosticsService
	logger         zerolog.Logger
}

func NewHunterServer(
	hunterSvc *service.HunterService,
	questSvc *service.QuestService,
	logSvc *service.LogService,
	seedSvc *service.SeedService,
	diagnosticsSvc *service.DiagnosticsService,
	logger zerolog.Logger,
) *HunterServer {
	return &HunterServer{
		hunterSvc:      hunterSvc,
		questSvc:       questSvc,
		logSvc:         logSvc,
		seedSvc:        seedSvc,
		diagnosticsSvc: diagnosticsSvc,
		logger:         logger,
	}
}

func (s *HunterServer) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.Root)
	mux.HandleFunc("GET /test", s.Diagnostics)

	mux.HandleFunc("POST /api/hunter", s.CreateHunter)
	mux.HandleFunc("GET /api/hunter/{id}", s.GetHunter)
	mux.HandleFunc("GET /api/stats", s.GetStats)

	mux.HandleFunc("POST /api/quests", s.CreateQuest)
	mux.HandleFunc("GET /api/quests", s.ListQuests)
	mux.HandleFunc("GET /api/quests/search", s.SearchQuests)
	mux.HandleFunc("POST /api/quests/{id}/start", s.StartQuest)
	mux.HandleFunc("POST /api/quests/{id}/complete", s.CompleteQuest)
	mux.HandleFunc("POST /api/quests/{id}/claim", s.ClaimQuest)

	mux.HandleFunc("GET /api/logs", s.ListLogs)
	mux.HandleFunc("POST /api/seed/dailies", s.SeedDailies)
}

// requestLogger prefers the request-scoped logger set by the RequestID
// middleware.
func (s *HunterServer) requestLogger(r *http.Request) *zerolog.Logger {
	if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &s.logger
}

func (s *HunterServer) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Solo Leveling API running"})
}

func (s *HunterServer) Diagnostics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toDiagnosticsResponse(s.diagnosticsSvc.Report(r.Context())))
}

func (s *HunterServer) CreateHunter(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r)

	var req createHunterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, logger, err, "")
		return
	}

	hunter, _, err := s.hunterSvc.CreateOrGet(r.Context(), req.DisplayName, req.Email)
	if err != nil {
		writeError(w, logger, err, "Hunter not found")
		return
	}
	writeJSON(w, http.StatusOK, toHunterResponse(hunter))
}

func (s *HunterServer) GetHunter(w http.ResponseWriter, r *http.Request) {
	hunter, err := s.hunterSvc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, s.requestLogger(r), err, "Hunter not found")
		return
	}
	writeJSON(w, http.StatusOK, toHunterResponse(hunter))
}

func (s *HunterServer) GetStats(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r)

	hunterID, err := requiredQuery(r, "hunter_id")
	if err != nil {
		writeError(w, logger, err, "")
		return
	}

	stats, err := s.hunterSvc.GetStats(r.Context(), hunterID)
	if err != nil {
		writeError(w, logger, err, "Stats not found")
		return
	}
	writeJSON(w, http.StatusOK, toStatsResponse(stats))
}

func (s *HunterServer) CreateQuest(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r)

	var req createQuestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, logger, err, "")
		return
	}

	quest, err := s.questSvc.Create(r.Context(), req.toInput())
	if err != nil {
		writeError(w, logger, err, "Quest not found")
		return
	}
	writeJSON(w, http.StatusOK, toQuestResponse(quest))
}

func (s *HunterServer) ListQuests(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r)

	hunterID, err := requiredQuery(r, "hunter_id")
	if err != nil {
		writeError(w, logger, err, "")
		return
	}
	questType := domain.QuestType(r.URL.Query().Get("type"))

	quests, err := s.questSvc.List(r.Context(), hunterID, questType)
	if err != nil {
		writeError(w, logger, err, "Quest not found")
		return
	}

	resp := make([]questResponse, 0, len(quests))
	for i := range quests {
		resp = append(resp, toQuestResponse(&quests[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *HunterServer) SearchQuests(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r)

	hunterID, err := requiredQuery(r, "hunter_id")
	if err != nil {
		writeError(w, logger, err, "")
		return
	}
	query, err := requiredQuery(r, "q")
	if err != nil {
		writeError(w, logger, err, "")
		return
	}

	limit, err := optionalInt(r, "limit")
	if err != nil {
		writeError(w, logger, err, "")
		return
	}

	quests, err := s.questSvc.Search(r.Context(), hunterID, query, limit)
	if err != nil {
		writeError(w, logger, err, "Quest not found")
		return
	}

	resp := make([]questResponse, 0, len(quests))
	for i := range quests {
		resp = append(resp, toQuestResponse(&quests[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *HunterServer) StartQuest(w http.ResponseWriter, r *http.Request) {
	res, err := s.questSvc.Start(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, s.requestLogger(r), err, "Quest not found")
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: string(res.Status)})
}

func (s *HunterServer) CompleteQuest(w http.ResponseWriter, r *http.Request) {
	res, err := s.questSvc.Complete(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, s.requestLogger(r), err, "Quest not found")
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: string(res.Status)})
}

func (s *HunterServer) ClaimQuest(w http.ResponseWriter, r *http.Request) {
	res, err := s.questSvc.Claim(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, s.requestLogger(r), err, "Quest not found")
		return
	}
	writeJSON(w, http.StatusOK, toClaimResponse(res))
}

func (s *HunterServer) ListLogs(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r)

	hunterID, err := requiredQuery(r, "hunter_id")
	if err != nil {
		writeError(w, logger, err, "")
		return
	}

	limit, err := optionalInt(r, "limit")
	if err != nil {
		writeError(w, logger, err, "")
		return
	}

	logs, err := s.logSvc.Recent(r.Context(), hunterID, limit)
	if err != nil {
		writeError(w, logger, err, "Logs not found")
		return
	}

	resp := make([]logResponse, 0, len(logs))
	for i := range logs {
		resp = append(resp, toLogResponse(&logs[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *HunterServer) SeedDailies(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r)

	hunterID, err := requiredQuery(r, "hunter_id")
	if err != nil {
		writeError(w, logger, err, "")
		return
	}

	quests, err := s.seedSvc.SeedDailies(r.Context(), hunterID)
	if err != nil {
		writeError(w, logger, err, "Hunter not found")
		return
	}

	resp := make([]questResponse, 0, len(quests))
	for _, q := range quests {
		resp = append(resp, toQuestResponse(q))
	}
	writeJSON(w, http.StatusOK, resp)
}
