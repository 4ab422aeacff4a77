package events

import "go.uber.org/zap"

// LoggingHandler writes every event it receives to a structured log
type LoggingHandler struct {
	logger *zap.Logger
}

func NewLoggingHandler(logger *zap.Logger) *LoggingHandler {
	return &LoggingHandler{logger: logger}
}

func (h *LoggingHandler) CanHandle(string) bool {
	return true
}

func (h *LoggingHandler) Handle(event Event) error {
	h.logger.Info("domain event",
		zap.String("event_id", event.ID()),
		zap.String("event_type", event.Type()),
		zap.String("stream", event.StreamID()),
		zap.Int("version", event.Version()),
		zap.Any("data", event.Data()))
	return nil
}
