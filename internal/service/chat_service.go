package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"pdf-chat-be/internal/constant"
	"pdf-chat-be/internal/dto"
	"pdf-chat-be/internal/mapper"
	"pdf-chat-be/internal/model"
	"pdf-chat-be/internal/pkg/logger"
	"pdf-chat-be/internal/repository/contract"
	"pdf-chat-be/internal/repository/memory"
	"pdf-chat-be/pkg/answer"
	"pdf-chat-be/pkg/events"
	"pdf-chat-be/pkg/ingestion"

	"github.com/google/uuid"
)

// EventPublisher pushes user-visible events to the notification system.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// IChatService defines the chat orchestration interface
type IChatService interface {
	CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context) (*dto.SessionListResponse, error)
	GetTranscript(ctx context.Context, sessionId uuid.UUID) (*dto.GetTranscriptResponse, error)
	DeleteSession(ctx context.Context, sessionId uuid.UUID) error
	SetActiveSession(ctx context.Context, sessionId *uuid.UUID) (*dto.ActiveSessionResponse, error)
	GetActiveSession(ctx context.Context) *dto.ActiveSessionResponse
	SendMessage(ctx context.Context, sessionId uuid.UUID, request *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	UploadDocument(ctx context.Context, sessionId uuid.UUID, fileName string, file io.Reader) (*dto.UploadDocumentResponse, error)
}

type chatService struct {
	sessionRepo    contract.ISessionRepository
	stateRepo      *memory.StateRepository
	processor      ingestion.DocumentProcessor
	answerer       answer.AnswerProvider
	eventPublisher EventPublisher
	chatMapper     *mapper.ChatMapper
	sysLogger      logger.ILogger
}

func NewChatService(
	sessionRepo contract.ISessionRepository,
	stateRepo *memory.StateRepository,
	processor ingestion.DocumentProcessor,
	answerer answer.AnswerProvider,
	eventPublisher EventPublisher,
	sysLogger logger.ILogger,
) IChatService {
	return &chatService{
		sessionRepo:    sessionRepo,
		stateRepo:      stateRepo,
		processor:      processor,
		answerer:       answerer,
		eventPublisher: eventPublisher,
		chatMapper:     mapper.NewChatMapper(),
		sysLogger:      sysLogger,
	}
}

func (cs *chatService) CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error) {
	session, err := cs.sessionRepo.Create(ctx)
	if err != nil {
		return nil, err
	}

	cs.publishEvent(ctx, constant.EventSessionCreated, map[string]interface{}{
		"session_id": session.Id.String(),
	})

	return &dto.CreateSessionResponse{Id: session.Id}, nil
}

func (cs *chatService) GetAllSessions(ctx context.Context) (*dto.SessionListResponse, error) {
	sessions := cs.sessionRepo.GetAll(ctx)
	activeId := cs.sessionRepo.GetActive(ctx)

	// A dangling active id (session deleted, or stale persisted state)
	// degrades to "no active session".
	if activeId != nil {
		found := false
		for _, s := range sessions {
			if s.Id == *activeId {
				found = true
				break
			}
		}
		if !found {
			activeId = nil
		}
	}

	summaries := make([]dto.SessionSummaryResponse, 0, len(sessions))
	for _, s := range sessions {
		summaries = append(summaries, cs.chatMapper.ToSummaryResponse(s, cs.stateRepo.Get(s.Id)))
	}

	return &dto.SessionListResponse{
		Sessions:        summaries,
		ActiveSessionId: activeId,
	}, nil
}

func (cs *chatService) GetTranscript(ctx context.Context, sessionId uuid.UUID) (*dto.GetTranscriptResponse, error) {
	session, ok := cs.sessionRepo.Get(ctx, sessionId)
	if !ok {
		return nil, contract.ErrSessionNotFound
	}
	return cs.chatMapper.ToTranscriptResponse(session), nil
}

func (cs *chatService) DeleteSession(ctx context.Context, sessionId uuid.UUID) error {
	if err := cs.sessionRepo.Delete(ctx, sessionId); err != nil {
		return err
	}
	cs.stateRepo.Clear(sessionId)

	cs.publishEvent(ctx, constant.EventSessionDeleted, map[string]interface{}{
		"session_id": sessionId.String(),
	})

	return nil
}

func (cs *chatService) SetActiveSession(ctx context.Context, sessionId *uuid.UUID) (*dto.ActiveSessionResponse, error) {
	if err := cs.sessionRepo.SetActive(ctx, sessionId); err != nil {
		return nil, err
	}
	return &dto.ActiveSessionResponse{ActiveSessionId: sessionId}, nil
}

func (cs *chatService) GetActiveSession(ctx context.Context) *dto.ActiveSessionResponse {
	return &dto.ActiveSessionResponse{ActiveSessionId: cs.sessionRepo.GetActive(ctx)}
}

// SendMessage appends the user message optimistically, asks the
// answer-generation endpoint with the full transcript and the session's
// processed document (if any), and appends the AI reply on success. On
// failure the transcript keeps the user message and gains nothing else.
func (cs *chatService) SendMessage(ctx context.Context, sessionId uuid.UUID, request *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	session, ok := cs.sessionRepo.Get(ctx, sessionId)
	if !ok {
		return nil, contract.ErrSessionNotFound
	}

	userMsg := model.Message{
		Id:        uuid.New(),
		Content:   request.Content,
		Sender:    constant.MessageSenderUser,
		Timestamp: time.Now(),
	}
	if err := cs.sessionRepo.AppendMessage(ctx, sessionId, userMsg); err != nil {
		return nil, err
	}

	// First user message titles the session, unless an upload already did.
	if session.Title == constant.DefaultSessionTitle && !hasUserMessage(session) {
		if err := cs.sessionRepo.SetTitle(ctx, sessionId, titleFromMessage(request.Content)); err != nil {
			return nil, err
		}
	}

	cs.stateRepo.Set(sessionId, memory.StateWaitingForAnswer)
	defer cs.stateRepo.Clear(sessionId)

	// Transcript up to and including the just-sent message. The document
	// payload may be nil; the call is made regardless.
	history := make([]answer.Turn, 0, len(session.Messages)+1)
	for _, m := range session.Messages {
		history = append(history, answer.Turn{Content: m.Content, Sender: m.Sender, Timestamp: m.Timestamp})
	}
	history = append(history, answer.Turn{Content: userMsg.Content, Sender: userMsg.Sender, Timestamp: userMsg.Timestamp})

	answerText, err := cs.answerer.GetAnswer(ctx, request.Content, history, session.ProcessedDocument)
	if err != nil {
		cs.sysLogger.Error("ChatService", "Answer generation failed", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		cs.publishEvent(ctx, constant.EventQueryFailed, map[string]interface{}{
			"session_id": sessionId.String(),
			"reason":     reasonFromError(err, "The assistant could not answer. Please try again."),
		})
		return nil, err
	}

	aiMsg := model.Message{
		Id:        uuid.New(),
		Content:   answerText,
		Sender:    constant.MessageSenderAI,
		Timestamp: time.Now(),
	}
	// No-op if the session was deleted while the call was in flight.
	if err := cs.sessionRepo.AppendMessage(ctx, sessionId, aiMsg); err != nil {
		return nil, err
	}

	title := session.Title
	if current, ok := cs.sessionRepo.Get(ctx, sessionId); ok {
		title = current.Title
	}

	return &dto.SendMessageResponse{
		SessionId:    sessionId,
		SessionTitle: title,
		Sent:         cs.chatMapper.ToMessageResponse(&userMsg),
		Reply:        cs.chatMapper.ToMessageResponse(&aiMsg),
	}, nil
}

// UploadDocument sends the PDF to the document-processing endpoint and,
// on success, attaches the payload to the session as one state update. A
// failed call leaves the session untouched.
func (cs *chatService) UploadDocument(ctx context.Context, sessionId uuid.UUID, fileName string, file io.Reader) (*dto.UploadDocumentResponse, error) {
	if _, ok := cs.sessionRepo.Get(ctx, sessionId); !ok {
		return nil, contract.ErrSessionNotFound
	}

	cs.stateRepo.Set(sessionId, memory.StateUploading)
	defer cs.stateRepo.Clear(sessionId)

	payload, err := cs.processor.ProcessDocument(ctx, fileName, file)
	if err != nil {
		cs.sysLogger.Error("ChatService", "Document processing failed", map[string]interface{}{
			"session_id": sessionId,
			"file_name":  fileName,
			"error":      err.Error(),
		})
		cs.publishEvent(ctx, constant.EventIngestionFailed, map[string]interface{}{
			"session_id": sessionId.String(),
			"file_name":  fileName,
			"reason":     reasonFromError(err, "The document could not be processed. Please try again."),
		})
		return nil, err
	}

	sysMsg, err := cs.sessionRepo.AttachDocument(ctx, sessionId, payload, fileName)
	if err != nil {
		return nil, err
	}

	cs.publishEvent(ctx, constant.EventDocumentAttached, map[string]interface{}{
		"session_id": sessionId.String(),
		"file_name":  fileName,
	})

	session, _ := cs.sessionRepo.Get(ctx, sessionId)
	title := fmt.Sprintf(constant.SessionTitleFromDocumentFmt, fileName)
	if session != nil {
		title = session.Title
	}

	return &dto.UploadDocumentResponse{
		SessionId:         sessionId,
		SessionTitle:      title,
		DocumentName:      fileName,
		ProcessedDocument: payload,
		SystemMessage:     cs.chatMapper.ToMessageResponse(sysMsg),
	}, nil
}

// publishEvent forwards to the notification system. Notifications are
// auxiliary; a publish failure is logged, never returned.
func (cs *chatService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if cs.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
		cs.sysLogger.Warn("ChatService", fmt.Sprintf("Failed to publish %s event", eventType), map[string]interface{}{"error": err.Error()})
	}
}

func hasUserMessage(session *model.Session) bool {
	for _, m := range session.Messages {
		if m.Sender == constant.MessageSenderUser {
			return true
		}
	}
	return false
}

func titleFromMessage(content string) string {
	title := strings.TrimSpace(content)
	if len(title) > constant.TitleFromMessageMaxLen {
		title = strings.TrimSpace(title[:constant.TitleFromMessageMaxLen]) + "..."
	}
	if title == "" {
		return constant.DefaultSessionTitle
	}
	return title
}

func reasonFromError(err error, fallback string) string {
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
