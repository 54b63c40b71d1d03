package mapper

import (
	"pdf-chat-be/internal/dto"
	"pdf-chat-be/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) ToMessageResponse(msg *model.Message) *dto.MessageResponse {
	if msg == nil {
		return nil
	}
	return &dto.MessageResponse{
		Id:        msg.Id,
		Content:   msg.Content,
		Sender:    msg.Sender,
		Timestamp: msg.Timestamp,
	}
}

func (m *ChatMapper) ToSummaryResponse(s *model.Session, state string) dto.SessionSummaryResponse {
	return dto.SessionSummaryResponse{
		Id:           s.Id,
		Title:        s.Title,
		CreatedAt:    s.CreatedAt,
		HasDocument:  s.ProcessedDocument != nil,
		DocumentName: s.DocumentName,
		MessageCount: len(s.Messages),
		State:        state,
	}
}

func (m *ChatMapper) ToTranscriptResponse(s *model.Session) *dto.GetTranscriptResponse {
	if s == nil {
		return nil
	}
	messages := make([]dto.MessageResponse, 0, len(s.Messages))
	for i := range s.Messages {
		messages = append(messages, *m.ToMessageResponse(&s.Messages[i]))
	}
	return &dto.GetTranscriptResponse{
		Id:                s.Id,
		Title:             s.Title,
		Messages:          messages,
		ProcessedDocument: s.ProcessedDocument,
		DocumentName:      s.DocumentName,
		CreatedAt:         s.CreatedAt,
	}
}
