package server

import (
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ragchat/internal/domain"
	"ragchat/internal/service"
)

// DefaultSessionID keys the history of clients that send no session id.
const DefaultSessionID = "default"

type Handler struct {
	svc *service.RAGService
}

type chatRequest struct {
	Message   string `json:"message"`
	Question  string `json:"question"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Status    string           `json:"status"`
	Response  string           `json:"response"`
	Answer    string           `json:"answer"`
	Sources   []service.Source `json:"sources"`
	Images    []domain.Image   `json:"images"`
	SessionID string           `json:"session_id"`
}

func NewHandler(svc *service.RAGService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Upload indexes every file of the repeated "files" form field.
func (h *Handler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil || len(form.File["files"]) == 0 {
		writeError(c, http.StatusBadRequest, "No file uploaded")
		return
	}
	files := make([]service.UploadedFile, 0, len(form.File["files"]))
	for _, fh := range form.File["files"] {
		data, err := readPart(fh)
		if err != nil {
			writeError(c, http.StatusBadRequest, "failed to read "+fh.Filename+": "+err.Error())
			return
		}
		files = append(files, service.UploadedFile{Name: fh.Filename, Data: data})
	}

	results, err := h.svc.Ingest(c.Request.Context(), files)
	if err != nil {
		log.Printf("Upload failed: %v", err)
		writeError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "results": results})
}

func (h *Handler) Indexed(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "documents": h.svc.Documents()})
}

// Chat answers one message. Either "message" or "question" carries the text.
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request payload")
		return
	}
	question := req.Message
	if strings.TrimSpace(question) == "" {
		question = req.Question
	}
	sessionID := sessionOrDefault(req.SessionID)

	answer, err := h.svc.Ask(c.Request.Context(), sessionID, question)
	if err != nil {
		if errors.Is(err, service.ErrEmptyQuestion) {
			writeError(c, http.StatusBadRequest, "Empty question")
			return
		}
		log.Printf("Chat failed for session %s: %v", sessionID, err)
		writeError(c, http.StatusInternalServerError, err.Error())
		return
	}
	resp := chatResponse{
		Status:    "ok",
		Response:  answer.Text,
		Answer:    answer.Text,
		Sources:   answer.Sources,
		Images:    answer.Images,
		SessionID: sessionID,
	}
	if resp.Sources == nil {
		resp.Sources = []service.Source{}
	}
	if resp.Images == nil {
		resp.Images = []domain.Image{}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) History(c *gin.Context) {
	sessionID := sessionOrDefault(c.Query("session_id"))
	msgs, err := h.svc.History(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if msgs == nil {
		msgs = []domain.ChatMessage{}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "session_id": sessionID, "messages": msgs})
}

func writeError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"status": "error", "message": message})
}

func sessionOrDefault(id string) string {
	if id = strings.TrimSpace(id); id == "" {
		return DefaultSessionID
	}
	return id
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
