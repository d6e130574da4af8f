package native

// Well-known property IDs understood by the configuration layer. Callers
// may also set arbitrary names through SetProperty; these are the ones the
// service connection reads.
const (
	PropertyConnectionKey          = "SpeechServiceConnection_Key"
	PropertyConnectionRegion       = "SpeechServiceConnection_Region"
	PropertyConnectionEndpoint     = "SpeechServiceConnection_Endpoint"
	PropertyAuthorizationToken     = "SpeechServiceAuthorization_Token"
	PropertyRecognitionLanguage    = "SpeechServiceConnection_RecoLanguage"
	PropertyTranslationToLanguages = "SpeechServiceConnection_TranslationToLanguages"
	PropertyTranslationVoice       = "SpeechServiceConnection_TranslationVoice"
	PropertyTranslationFeatures    = "SpeechServiceConnection_TranslationFeatures"
)

// endpointQueryProperties maps endpoint URL query parameters to the logical
// property they pin. A parameter present in the endpoint takes precedence
// over any later setter for the same property.
var endpointQueryProperties = map[string]string{
	"language": PropertyRecognitionLanguage,
	"from":     PropertyRecognitionLanguage,
	"to":       PropertyTranslationToLanguages,
	"voice":    PropertyTranslationVoice,
}
