// Package server exposes the tutor over a JSON HTTP API.
package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/at-ishikawa/langtutor/internal/activity"
	"github.com/at-ishikawa/langtutor/internal/chat"
	"github.com/at-ishikawa/langtutor/internal/learner"
	"github.com/at-ishikawa/langtutor/internal/quiz"
	"github.com/at-ishikawa/langtutor/internal/writing"
)

const dailyQuizType = "daily"

// Handler serves the /api routes.
type Handler struct {
	learners    *learner.Service
	chats       *chat.Service
	resolver    *quiz.Resolver
	grader      *quiz.Grader
	assignments *quiz.Assignments
	writings    *writing.Service
	dashboards  *activity.Builder
}

func NewHandler(
	learners *learner.Service,
	chats *chat.Service,
	resolver *quiz.Resolver,
	grader *quiz.Grader,
	assignments *quiz.Assignments,
	writings *writing.Service,
	dashboards *activity.Builder,
) *Handler {
	return &Handler{
		learners:    learners,
		chats:       chats,
		resolver:    resolver,
		grader:      grader,
		assignments: assignments,
		writings:    writings,
		dashboards:  dashboards,
	}
}

// Register adds every route to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/register", h.register)
	mux.HandleFunc("POST /api/login", h.login)
	mux.HandleFunc("POST /api/chat", h.chat)
	mux.HandleFunc("GET /api/quiz", h.getQuiz)
	mux.HandleFunc("POST /api/quiz/submit", h.submitQuiz)
	mux.HandleFunc("GET /api/dashboard", h.dashboard)
	mux.HandleFunc("POST /api/writing/submit", h.submitWriting)
	mux.HandleFunc("POST /api/admin/generate-quiz", h.generateQuiz)
	mux.HandleFunc("POST /api/admin/assign-quiz", h.assignQuiz)
	mux.HandleFunc("GET /api/admin/active-quizzes", h.activeQuizzes)
	mux.HandleFunc("DELETE /api/admin/quiz/{id}", h.deleteQuiz)
}

type usernameRequest struct {
	Username string `json:"username" validate:"required"`
}

func (req *usernameRequest) normalize() {
	req.Username = strings.TrimSpace(req.Username)
}

type userResponse struct {
	Success bool             `json:"success"`
	Token   string           `json:"token,omitempty"`
	User    *learner.Profile `json:"user"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req usernameRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.learners.Register(r.Context(), req.Username)
	if errors.Is(err, learner.ErrDuplicateUser) {
		writeError(w, http.StatusBadRequest, "User already exists")
		return
	}
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{Success: true, User: profile})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req usernameRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, token, err := h.learners.Login(r.Context(), req.Username)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{Success: true, Token: token, User: profile})
}

type chatRequest struct {
	Username string `json:"username" validate:"required"`
	Message  string `json:"message" validate:"required"`
	Mode     string `json:"mode"`
}

type chatResponse struct {
	Reply       string   `json:"reply"`
	Response    string   `json:"response"`
	Corrections []string `json:"corrections"`
}

func (h *Handler) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	reply, err := h.chats.Send(r.Context(), chat.Request{
		Username: req.Username,
		Message:  req.Message,
		Mode:     req.Mode,
	})
	if errors.Is(err, chat.ErrInvalidRequest) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{
		Reply:       reply.Text,
		Response:    reply.Text,
		Corrections: reply.Corrections,
	})
}

type quizResponse struct {
	Questions []quiz.Question `json:"questions"`
	Topic     string          `json:"topic,omitempty"`
}

func (h *Handler) getQuiz(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	selection, err := h.resolver.Resolve(r.Context(), query.Get("username"), query.Get("type") == dailyQuizType)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quizResponse{
		Questions: selection.Questions,
		Topic:     selection.Topic,
	})
}

type submitQuizRequest struct {
	Username    string        `json:"username"`
	Answers     []quiz.Answer `json:"answers"`
	QuestionID  int           `json:"questionId"`
	AnswerIndex int           `json:"answerIndex"`
}

type submitQuizResponse struct {
	Success        bool `json:"success"`
	Score          int  `json:"score"`
	TotalQuestions int  `json:"totalQuestions"`
	Accuracy       int  `json:"accuracy"`
}

func (h *Handler) submitQuiz(w http.ResponseWriter, r *http.Request) {
	var req submitQuizRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	score, err := h.grader.Submit(r.Context(), quiz.Submission{
		Username:    req.Username,
		Answers:     req.Answers,
		QuestionID:  req.QuestionID,
		AnswerIndex: req.AnswerIndex,
	})
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, submitQuizResponse{
		Success:        true,
		Score:          score.Score,
		TotalQuestions: score.TotalQuestions,
		Accuracy:       score.Accuracy,
	})
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.dashboards.Dashboard(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

type writingRequest struct {
	Username    string `json:"username"`
	Text        string `json:"text" validate:"required"`
	Environment string `json:"environment"`
	Tone        string `json:"tone"`
}

type writingResponse struct {
	Success  bool              `json:"success"`
	Feedback *writing.Feedback `json:"feedback"`
}

func (h *Handler) submitWriting(w http.ResponseWriter, r *http.Request) {
	var req writingRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	feedback, err := h.writings.Submit(r.Context(), writing.Request{
		Username:    req.Username,
		Text:        req.Text,
		Environment: req.Environment,
		Tone:        req.Tone,
	})
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, writingResponse{Success: true, Feedback: feedback})
}

type generateQuizRequest struct {
	Level string `json:"level"`
	Topic string `json:"topic"`
}

type generateQuizResponse struct {
	Success bool            `json:"success"`
	Quiz    []quiz.Question `json:"quiz"`
}

func (h *Handler) generateQuiz(w http.ResponseWriter, r *http.Request) {
	var req generateQuizRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	slog.Default().Info("admin generating quiz", "level", req.Level, "topic", req.Topic)
	questions := h.resolver.GenerateForTopic(r.Context(), req.Level, req.Topic)
	writeJSON(w, http.StatusOK, generateQuizResponse{Success: true, Quiz: questions})
}

type assignQuizRequest struct {
	Title      string          `json:"title" validate:"required"`
	Questions  []quiz.Question `json:"questions"`
	AssignedTo string          `json:"assignedTo"`
}

func (h *Handler) assignQuiz(w http.ResponseWriter, r *http.Request) {
	var req assignQuizRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.AssignedTo == "" {
		req.AssignedTo = quiz.AllStudents
	}

	assigned, err := h.assignments.Assign(r.Context(), req.Title, req.Questions, req.AssignedTo)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	slog.Default().Info("quiz assigned",
		"id", assigned.ID,
		"title", assigned.Title,
		"assignedTo", assigned.AssignedTo)
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *Handler) activeQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.assignments.List(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quizzes)
}

func (h *Handler) deleteQuiz(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid quiz id")
		return
	}

	err = h.assignments.Delete(r.Context(), id)
	switch {
	case errors.Is(err, quiz.ErrAssignmentNotFound):
		slog.Default().Warn("deleting unknown assigned quiz", "id", id)
	case err != nil:
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
