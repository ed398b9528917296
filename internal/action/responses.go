package action

import "github.com/set-night/eduassist/internal/emotion"

// EmotionResponses holds the candidate replies per dominant emotion.
var EmotionResponses = map[emotion.Label][]string{
	emotion.Joy: {
		"¡Me alegra que estés de buen humor!",
		"Es genial verte tan positivo.",
		"Tu entusiasmo es contagioso.",
	},
	emotion.Sadness: {
		"Lamento que te sientas así. ¿Puedo ayudarte en algo?",
		"Entiendo que a veces las cosas pueden ser difíciles. Estoy aquí para ayudar.",
		"¿Hay algo específico que te preocupe? Tal vez pueda ayudarte.",
	},
	emotion.Anger: {
		"Entiendo tu frustración. Intentemos resolver esto juntos.",
		"Lamento que estés molesto. ¿Cómo puedo ayudarte?",
		"Veo que esto es importante para ti. Hagamos lo posible por solucionarlo.",
	},
	emotion.Fear: {
		"Entiendo tu preocupación. Estoy aquí para ayudarte.",
		"Es normal sentirse así ante la incertidumbre. Veamos qué podemos hacer.",
		"Trabajemos juntos para abordar tus preocupaciones.",
	},
	emotion.Surprise: {
		"¡Vaya! Parece que esto te ha sorprendido.",
		"Entiendo tu asombro. A veces las cosas pueden ser inesperadas.",
		"Es interesante, ¿verdad? Exploremos esto más a fondo.",
	},
	emotion.Confusion: {
		"Parece que hay algo que no está claro. Intentaré explicarlo mejor.",
		"Entiendo que esto puede ser confuso. Vamos paso a paso.",
		"No te preocupes, es normal tener dudas. Estoy aquí para aclarar tus preguntas.",
	},
	emotion.Neutral: {
		"¿En qué más puedo ayudarte hoy?",
		"Estoy aquí para asistirte. ¿Qué necesitas?",
		"¿Hay algo específico en lo que pueda ayudarte?",
	},
}

// SmallTalkResponses holds the candidate replies per small-talk intent.
var SmallTalkResponses = map[string][]string{
	"saludar": {
		"¡Hola! ¿En qué puedo ayudarte hoy?",
		"¡Saludos! Estoy aquí para asistirte.",
		"¡Hola! Es un placer hablar contigo.",
	},
	"despedir": {
		"¡Hasta luego! Fue un placer ayudarte.",
		"¡Adiós! Vuelve cuando necesites más ayuda.",
		"¡Hasta pronto! Estoy aquí cuando me necesites.",
	},
	"agradecer": {
		"¡De nada! Estoy aquí para ayudar.",
		"Es un placer poder asistirte.",
		"No hay de qué. ¿Hay algo más en lo que pueda ayudarte?",
	},
	"preguntar_como_estas": {
		"¡Estoy funcionando perfectamente! Gracias por preguntar. ¿Y tú cómo estás?",
		"Todo bien por aquí, listo para ayudarte. ¿Cómo va tu día?",
		"Estoy bien, gracias. ¿En qué puedo asistirte hoy?",
	},
}
