package chat

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	apperrors "github.com/climalab/clima-chat/pkg/errors"
	"github.com/climalab/clima-chat/pkg/metrics"

	"github.com/climalab/clima-chat/internal/domain/weather"
)

// ModelApologyText is returned in place of a model reply when the language
// model call fails.
const ModelApologyText = "Lo siento, no pude generar una respuesta."

// Fallback policies when a weather question cannot be answered with data.
const (
	WeatherFallbackModel   = "model"
	WeatherFallbackApology = "apology"
)

// titleWordLimit caps how many words of the first message become the title.
const titleWordLimit = 4

// TextGenerator produces a free-form reply from an ordered list of
// conversation turns.
type TextGenerator interface {
	Generate(ctx context.Context, turns []string) (string, metrics.TokenUsage, error)
}

// WeatherLookup resolves a place name into a current or next-day observation.
// A nil observation with a nil error means the data is unavailable.
type WeatherLookup interface {
	Lookup(ctx context.Context, place string, tomorrow bool) (*weather.Observation, error)
}

// ReplyFormatter renders weather observations as chat replies.
type ReplyFormatter interface {
	Format(obs weather.Observation, intent weather.Intent) string
	Unavailable(place string) string
}

// SendResult is the outcome of posting a message: the assistant's reply turn
// and the conversation in its post-reply state.
type SendResult struct {
	Reply        Turn
	Conversation Conversation
}

// Service orchestrates conversations: persistence, weather special-casing and
// language model relay.
type Service interface {
	CreateConversation(ctx context.Context, userID int64) (Conversation, error)
	ListConversations(ctx context.Context, userID int64) ([]Conversation, error)
	GetConversation(ctx context.Context, userID, conversationID int64) (Conversation, []Turn, error)
	SendMessage(ctx context.Context, userID, conversationID int64, content string) (SendResult, error)
	DeleteConversation(ctx context.Context, userID, conversationID int64) error
}

// Options tunes orchestration behaviour.
type Options struct {
	// MaxContextTurns caps how many prior turns feed the model prompt.
	// Zero or negative means no cap.
	MaxContextTurns int
	// WeatherFallback selects what happens when weather data is
	// unavailable: relay to the model or apologise directly.
	WeatherFallback string
}

type service struct {
	repo       Repository
	classifier weather.Classifier
	lookup     WeatherLookup
	formatter  ReplyFormatter
	generator  TextGenerator
	opts       Options
	logger     *slog.Logger
}

// NewService wires the orchestrator.
func NewService(repo Repository, classifier weather.Classifier, lookup WeatherLookup, formatter ReplyFormatter, generator TextGenerator, opts Options, logger *slog.Logger) Service {
	if opts.WeatherFallback == "" {
		opts.WeatherFallback = WeatherFallbackModel
	}
	return &service{
		repo:       repo,
		classifier: classifier,
		lookup:     lookup,
		formatter:  formatter,
		generator:  generator,
		opts:       opts,
		logger:     logger.With("component", "chat.service"),
	}
}

func (s *service) CreateConversation(ctx context.Context, userID int64) (Conversation, error) {
	conv, err := s.repo.CreateConversation(ctx, userID, DefaultTitle)
	if err != nil {
		return Conversation{}, apperrors.Wrap("chat_error", "failed to create conversation", err)
	}
	return conv, nil
}

func (s *service) ListConversations(ctx context.Context, userID int64) ([]Conversation, error) {
	convs, err := s.repo.ListConversations(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap("chat_error", "failed to list conversations", err)
	}
	return convs, nil
}

func (s *service) GetConversation(ctx context.Context, userID, conversationID int64) (Conversation, []Turn, error) {
	conv, err := s.owned(ctx, userID, conversationID)
	if err != nil {
		return Conversation{}, nil, err
	}
	turns, err := s.repo.ListTurns(ctx, conversationID)
	if err != nil {
		return Conversation{}, nil, apperrors.Wrap("chat_error", "failed to load conversation turns", err)
	}
	return conv, turns, nil
}

func (s *service) DeleteConversation(ctx context.Context, userID, conversationID int64) error {
	if _, err := s.owned(ctx, userID, conversationID); err != nil {
		return err
	}
	if err := s.repo.DeleteConversation(ctx, conversationID); err != nil {
		return apperrors.Wrap("chat_error", "failed to delete conversation", err)
	}
	return nil
}

func (s *service) SendMessage(ctx context.Context, userID, conversationID int64, content string) (SendResult, error) {
	if strings.TrimSpace(content) == "" {
		return SendResult{}, apperrors.Wrap("invalid_input", "message content cannot be empty", nil)
	}

	conv, err := s.owned(ctx, userID, conversationID)
	if err != nil {
		return SendResult{}, err
	}

	prior, err := s.repo.ListTurns(ctx, conversationID)
	if err != nil {
		return SendResult{}, apperrors.Wrap("chat_error", "failed to load conversation turns", err)
	}

	if _, err := s.repo.AppendTurn(ctx, Turn{
		ConversationID: conversationID,
		Role:           RoleUser,
		Content:        content,
	}); err != nil {
		return SendResult{}, apperrors.Wrap("chat_error", "failed to persist user message", err)
	}

	replyText, fromWeather := s.reply(ctx, prior, content)

	replyTurn, err := s.repo.AppendTurn(ctx, Turn{
		ConversationID: conversationID,
		Role:           RoleAssistant,
		Content:        replyText,
		FromWeather:    fromWeather,
	})
	if err != nil {
		return SendResult{}, apperrors.Wrap("chat_error", "failed to persist assistant reply", err)
	}

	if conv.Title == DefaultTitle {
		title := titleFrom(content)
		if err := s.repo.UpdateTitle(ctx, conversationID, title); err != nil {
			s.logger.Warn("title update failed", "conversation_id", conversationID, "error", err)
		}
	}

	fresh, found, err := s.repo.GetConversation(ctx, conversationID)
	if err != nil || !found {
		// Reply is already persisted; fall back to the stale snapshot.
		fresh = conv
	}

	return SendResult{Reply: replyTurn, Conversation: fresh}, nil
}

// reply picks between the weather path and the language model. It never
// fails: provider trouble degrades to the configured fallback or an apology.
func (s *service) reply(ctx context.Context, prior []Turn, content string) (string, bool) {
	intent := s.classifier.Classify(content)
	if intent.IsWeather {
		obs, err := s.lookup.Lookup(ctx, intent.Place, intent.Tomorrow)
		if err != nil {
			s.logger.Error("weather lookup failed", "place", intent.Place, "error", err)
		}
		if obs != nil {
			return s.formatter.Format(*obs, intent), true
		}
		if s.opts.WeatherFallback == WeatherFallbackApology {
			return s.formatter.Unavailable(intent.Place), true
		}
	}

	turns := buildContext(prior, content, s.opts.MaxContextTurns)
	text, usage, err := s.generator.Generate(ctx, turns)
	if err != nil {
		s.logger.Error("model generation failed", "error", err)
		return ModelApologyText, false
	}
	if !usage.IsZero() {
		s.logger.Debug("model usage", "prompt_tokens", usage.PromptTokens, "total_tokens", usage.TotalTokens)
	}
	return text, false
}

// owned loads a conversation and checks it belongs to userID.
func (s *service) owned(ctx context.Context, userID, conversationID int64) (Conversation, error) {
	conv, found, err := s.repo.GetConversation(ctx, conversationID)
	if err != nil {
		return Conversation{}, apperrors.Wrap("chat_error", "failed to load conversation", err)
	}
	if !found {
		return Conversation{}, apperrors.Wrap("not_found", "conversation not found", nil)
	}
	if conv.UserID != userID {
		return Conversation{}, apperrors.Wrap("forbidden", "conversation belongs to another user", nil)
	}
	return conv, nil
}

// titleFrom derives a conversation title from the first message: up to four
// words, first letter upper-cased, with an ellipsis when truncated.
func titleFrom(message string) string {
	words := strings.Fields(strings.TrimSpace(message))
	if len(words) == 0 {
		return DefaultTitle
	}

	truncated := len(words) > titleWordLimit
	if truncated {
		words = words[:titleWordLimit]
	}

	title := strings.Join(words, " ")
	runes := []rune(title)
	runes[0] = unicode.ToUpper(runes[0])
	title = string(runes)
	if truncated {
		title += "..."
	}
	return title
}
