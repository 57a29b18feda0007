package api

import (
	"fmt"
	"net/http"
	"time"

	"funlabs/internal/store"
	"funlabs/internal/utils"

	"github.com/go-chi/chi/v5"
)

type LearningHandler struct {
	learningStore store.LearningStore
	logger        *utils.Logger
}

func NewLearningHandler(learningStore store.LearningStore, logger *utils.Logger) *LearningHandler {
	return &LearningHandler{
		learningStore: learningStore,
		logger:        logger,
	}
}

// GET /api/topics
func (h *LearningHandler) HandleListTopics(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	topics, err := h.learningStore.ListTopics(r.Context())
	if err != nil {
		h.logger.Error("topics", "Failed to fetch topics", err)
		utils.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch topics")
		return
	}

	lessonCount := 0
	for _, topic := range topics {
		lessonCount += len(topic.Lessons)
	}
	h.logger.Debug("topics", fmt.Sprintf("Found %d topics with %d lessons in %s",
		len(topics), lessonCount, time.Since(start).Round(time.Microsecond)))

	utils.WriteJSON(w, http.StatusOK, topics)
}

// GET /api/lessons/{lessonId}/questions
func (h *LearningHandler) HandleListLessonQuestions(w http.ResponseWriter, r *http.Request) {
	lessonID, err := utils.ParseID("lessonId", chi.URLParam(r, "lessonId"))
	if err != nil {
		utils.WriteValidationError(w, err.Error())
		return
	}

	questions, err := h.learningStore.ListQuestions(r.Context(), lessonID)
	if err != nil {
		h.logger.Error("questions", "Failed to fetch questions for lesson "+lessonID.String(), err)
		utils.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch questions")
		return
	}

	h.logger.Debug("questions", fmt.Sprintf("Found %d questions for lesson %s", len(questions), lessonID))
	utils.WriteJSON(w, http.StatusOK, questions)
}
