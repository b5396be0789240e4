package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"knowledge-assistant/internal/assistant"
	"knowledge-assistant/internal/data/entity"
	"knowledge-assistant/internal/data/repository"
	"knowledge-assistant/internal/dto/request"
	"knowledge-assistant/internal/dto/response"
	"knowledge-assistant/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	titleWords    = 6
	previewRunes  = 100
	questionRunes = 50
)

type ChatService interface {
	ListConversations(ctx context.Context, userID uuid.UUID) ([]response.ConversationResponse, error)
	CreateConversation(ctx context.Context, userID uuid.UUID, req *request.CreateConversationRequest) (*response.ConversationResponse, error)
	GetConversation(ctx context.Context, userID, conversationID uuid.UUID) (*response.ConversationDetailResponse, error)
	DeleteConversation(ctx context.Context, userID, conversationID uuid.UUID) error
	// SendMessage stores the user's message and the assistant's reply. When
	// the AI provider fails the returned response still carries the stored
	// user message alongside the error.
	SendMessage(ctx context.Context, userID uuid.UUID, req *request.SendMessageRequest) (*response.SendMessageResponse, error)
}

type chatService struct {
	repo      *repository.Repository
	knowledge KnowledgeService
	gateway   *assistant.Gateway
	log       *zap.Logger
	now       Clock
}

func NewChatService(
	repo *repository.Repository,
	knowledge KnowledgeService,
	gateway *assistant.Gateway,
	log *zap.Logger,
	now Clock,
) ChatService {
	return &chatService{
		repo:      repo,
		knowledge: knowledge,
		gateway:   gateway,
		log:       log.With(zap.String("service", "chat")),
		now:       now,
	}
}

func (s *chatService) ListConversations(ctx context.Context, userID uuid.UUID) ([]response.ConversationResponse, error) {
	conversations, err := s.repo.Conversation.FindByUser(ctx, userID, 0)
	if err != nil {
		s.log.Error("Failed to list conversations", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to get conversations")
	}
	return response.ConversationsToResponse(conversations), nil
}

func (s *chatService) CreateConversation(ctx context.Context, userID uuid.UUID, req *request.CreateConversationRequest) (*response.ConversationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(utils.FormatValidationErrors(errs))
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = entity.DefaultConversationTitle
	}

	now := s.now()
	conversation := &entity.Conversation{
		BaseNoDelete: entity.NewBaseNoDelete(now),
		UserID:       userID,
		Title:        title,
	}

	err := s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Conversation.Create(ctx, conversation); err != nil {
			return err
		}
		return tx.Profile.IncrementConversations(ctx, userID, 1)
	})
	if err != nil {
		s.log.Error("Failed to create conversation", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to create conversation")
	}

	resp := response.ConversationToResponse(conversation)
	return &resp, nil
}

func (s *chatService) GetConversation(ctx context.Context, userID, conversationID uuid.UUID) (*response.ConversationDetailResponse, error) {
	conversation, err := s.findConversation(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	messages, err := s.repo.Message.FindByConversation(ctx, conversation.ID)
	if err != nil {
		s.log.Error("Failed to list messages", zap.Error(err), zap.String("conversation_id", conversationID.String()))
		return nil, fmt.Errorf("failed to get messages")
	}

	return &response.ConversationDetailResponse{
		ConversationResponse: response.ConversationToResponse(conversation),
		Messages:             response.MessagesToResponse(messages),
	}, nil
}

func (s *chatService) DeleteConversation(ctx context.Context, userID, conversationID uuid.UUID) error {
	deleted, err := s.repo.Conversation.Delete(ctx, conversationID, userID)
	if err != nil {
		s.log.Error("Failed to delete conversation", zap.Error(err), zap.String("conversation_id", conversationID.String()))
		return fmt.Errorf("failed to delete conversation")
	}
	if !deleted {
		return fmt.Errorf("conversation %w", ErrNotFound)
	}

	s.log.Info("Conversation deleted",
		zap.String("conversation_id", conversationID.String()),
		zap.String("user_id", userID.String()))
	return nil
}

func (s *chatService) SendMessage(ctx context.Context, userID uuid.UUID, req *request.SendMessageRequest) (*response.SendMessageResponse, error) {
	// 1. Validasi
	req.Message = strings.TrimSpace(req.Message)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(utils.FormatValidationErrors(errs))
	}
	conversationID, err := uuid.Parse(req.ConversationID)
	if err != nil {
		return nil, validationError("invalid conversation id")
	}

	// 2. Conversation milik user
	conversation, err := s.findConversation(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	// 3. History is read before the new message is stored so the prompt
	// does not repeat it.
	history, err := s.repo.Message.FindRecent(ctx, conversation.ID, assistant.MaxHistory)
	if err != nil {
		s.log.Error("Failed to load history", zap.Error(err), zap.String("conversation_id", conversation.ID.String()))
		return nil, fmt.Errorf("failed to send message")
	}

	// 4. Simpan pesan user
	userMsg := &entity.Message{
		BaseSimple:     entity.NewBaseSimple(s.now()),
		ConversationID: conversation.ID,
		Role:           entity.MessageRoleUser,
		Content:        req.Message,
	}
	if err := s.repo.Message.Create(ctx, userMsg); err != nil {
		s.log.Error("Failed to save message", zap.Error(err), zap.String("conversation_id", conversation.ID.String()))
		return nil, fmt.Errorf("failed to send message")
	}
	resp := &response.SendMessageResponse{UserMessage: response.MessageToResponse(userMsg)}

	// 5. Knowledge context; a failed lookup only costs the excerpts
	kbContext, err := s.knowledge.BuildContext(ctx, req.Message, DefaultContextLimit)
	if err != nil {
		s.log.Warn("Continuing without knowledge context", zap.Error(err))
		kbContext = ""
	}

	// 6. AI reply
	reply, err := s.gateway.Generate(ctx, assistant.PromptInput{
		Context: kbContext,
		History: toTurns(history),
		Message: req.Message,
	})
	if err != nil {
		s.log.Error("AI gateway failed",
			zap.Error(err),
			zap.String("conversation_id", conversation.ID.String()))
		return resp, err
	}

	// 7. Simpan balasan + update conversation, profile, notification
	aiMsg := &entity.Message{
		BaseSimple:     entity.NewBaseSimple(after(s.now(), userMsg.CreatedAt)),
		ConversationID: conversation.ID,
		Role:           entity.MessageRoleAssistant,
		Content:        reply,
	}

	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Message.Create(ctx, aiMsg); err != nil {
			return err
		}

		// Title comes from the first exchange that got a reply
		replies, err := tx.Message.CountByRole(ctx, conversation.ID, entity.MessageRoleAssistant)
		if err != nil {
			return err
		}
		if replies == 1 {
			conversation.Title = ConversationTitle(req.Message)
		}
		conversation.Preview = utils.Truncate(req.Message, previewRunes)
		conversation.UpdatedAt = aiMsg.CreatedAt
		if err := tx.Conversation.Update(ctx, conversation); err != nil {
			return err
		}

		if err := tx.Profile.IncrementMessages(ctx, userID, 2); err != nil {
			return err
		}

		return s.notifyReply(ctx, tx, userID, req.Message, aiMsg.CreatedAt)
	})
	if err != nil {
		s.log.Error("Failed to save reply", zap.Error(err), zap.String("conversation_id", conversation.ID.String()))
		return resp, fmt.Errorf("failed to save reply")
	}

	ai := response.MessageToResponse(aiMsg)
	resp.AIMessage = &ai
	return resp, nil
}

// ConversationTitle is the first six words of the opening message, with an
// ellipsis when there were more.
func ConversationTitle(message string) string {
	words := strings.Fields(message)
	if len(words) == 0 {
		return entity.DefaultConversationTitle
	}

	title := strings.Join(words[:min(len(words), titleWords)], " ")
	if len(words) > titleWords {
		title += "..."
	}
	return utils.Truncate(title, 200)
}

// ==================== HELPER METHODS ====================

func (s *chatService) findConversation(ctx context.Context, userID, conversationID uuid.UUID) (*entity.Conversation, error) {
	conversation, err := s.repo.Conversation.FindByIDAndUser(ctx, conversationID, userID)
	if err != nil {
		s.log.Error("Failed to find conversation", zap.Error(err), zap.String("conversation_id", conversationID.String()))
		return nil, fmt.Errorf("failed to get conversation")
	}
	if conversation == nil {
		return nil, fmt.Errorf("conversation %w", ErrNotFound)
	}
	return conversation, nil
}

func (s *chatService) notifyReply(ctx context.Context, tx *repository.Repository, userID uuid.UUID, message string, now time.Time) error {
	settings, err := tx.Settings.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if settings == nil || !settings.ChatNotifications {
		return nil
	}

	return tx.Notification.Create(ctx, &entity.Notification{
		BaseSimple: entity.NewBaseSimple(now),
		UserID:     userID,
		Title:      "AI Response Received",
		Message:    fmt.Sprintf("Your question about '%s...' has been answered.", utils.Truncate(message, questionRunes)),
		Type:       entity.NotificationChat,
	})
}

func toTurns(history []*entity.Message) []assistant.Turn {
	turns := make([]assistant.Turn, 0, len(history))
	for _, m := range history {
		turns = append(turns, assistant.Turn{Role: m.Role, Content: m.Content})
	}
	return turns
}

// after keeps message timestamps strictly increasing within an exchange.
func after(t, prev time.Time) time.Time {
	if t.After(prev) {
		return t
	}
	return prev.Add(time.Microsecond)
}
