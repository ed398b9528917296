package config

import "time"

const (
	// Connection pool sizing
	PoolMaxConns = 20
	PoolMinConns = 2

	// HTTP server timeouts
	ReadHeaderTimeout = 5 * time.Second
	IdleTimeout       = 120 * time.Second
	ShutdownTimeout   = 10 * time.Second

	// Telegram limits
	MaxTelegramMessageLen = 4096

	// Bot rate limit window
	RateLimitWindow = time.Minute

	// Days reported by /api/analytics/daily when no range is given
	DailyMetricsDefaultDays = 7

	// Slot written by log-turn and consumed by record-feedback
	SlotLastMessageID = "last_message_id"
	SlotUserName      = "user_name"

	// Entity carrying the user's rating
	EntityRating = "rating"

	// Sender id prefix for chats relayed from Telegram
	TelegramSenderPrefix = "telegram-"
)

// AllowedDocumentTypes is the upload allow-list (lowercase extensions, no dot).
var AllowedDocumentTypes = []string{"pdf", "docx", "txt"}

// Fixed utterances surfaced to end users.
const (
	UtterDefaultReply       = "Lo siento, no pude procesar tu mensaje. ¿Podrías intentarlo de nuevo?"
	UtterKnowledgeNotFound  = "Lo siento, no tengo información específica sobre eso en mi base de conocimiento. ¿Hay algo más en lo que pueda ayudarte?"
	UtterStorageError       = "Lo siento, ha ocurrido un error al procesar tu mensaje. Por favor, inténtalo de nuevo más tarde."
	UtterFeedbackError      = "Lo siento, ha ocurrido un error al registrar tu feedback. Por favor, inténtalo de nuevo más tarde."
	UtterFeedbackClarify    = "Lo siento, no pude registrar tu feedback. Por favor, intenta de nuevo proporcionando una calificación del 1 al 5."
	UtterFeedbackThanksFmt  = "¡Gracias por tu feedback! Has calificado con %d estrellas."
	UtterGenericHelp        = "Estoy aquí para ayudarte. ¿Qué necesitas?"
	UtterRateLimited        = "⏳ Demasiados mensajes. Espera un momento."
	UtterRuntimeUnavailable = "⚠️ El asistente no está disponible en este momento. Inténtalo más tarde."
)

// Telegram channel texts.
const (
	BotWelcome           = "👋 ¡Hola! Soy EduAssist. Pregúntame lo que necesites sobre tus cursos."
	BotConversationReset = "🔄 Conversación reiniciada. Podemos empezar de nuevo."
	BotDocumentSavedFmt  = "📄 Documento guardado como %s."
	BotDocumentRejected  = "❌ Solo se aceptan documentos PDF, DOCX o TXT."
	BotDocumentTooLarge  = "❌ El documento supera el tamaño máximo permitido."
	BotDocumentFailed    = "❌ No se pudo guardar el documento. Inténtalo más tarde."

	// Telegram caps callback data at 64 bytes.
	MaxCallbackDataLen = 64
	TypingInterval     = 4 * time.Second
)
