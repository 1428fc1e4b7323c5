package extract

import "errors"

var (
	ErrPasswordProtected = errors.New("pdf is password protected")
	ErrCorrupt           = errors.New("pdf is corrupt or invalid")
	ErrWordDocument      = errors.New("word documents must be converted to pdf")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrNoText            = errors.New("no text found in document")
	ErrTimeout           = errors.New("text extraction timed out")
	// ErrEngineInit is retryable: the next call runs the engine self-test again.
	ErrEngineInit = errors.New("pdf engine initialization failed")
)

// UserMessage returns the pt-BR message shown to the user for an extraction error.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrPasswordProtected):
		return "Este PDF está protegido. Por favor, remova a senha e tente novamente."
	case errors.Is(err, ErrCorrupt):
		return "O arquivo PDF está corrompido. Por favor, tente outro arquivo."
	case errors.Is(err, ErrWordDocument):
		return "Por favor, converta o arquivo DOCX para PDF antes de enviar."
	case errors.Is(err, ErrUnsupportedFormat):
		return "Por favor, envie um arquivo PDF"
	case errors.Is(err, ErrNoText):
		return "Não foi possível extrair texto do PDF. Verifique se o arquivo não é uma imagem digitalizada."
	case errors.Is(err, ErrTimeout):
		return "O processamento do PDF demorou demais. Por favor, tente um arquivo menor."
	case errors.Is(err, ErrEngineInit):
		return "Falha ao inicializar o processador de PDF. Por favor, recarregue a página e tente novamente."
	default:
		return "Erro ao processar o arquivo. Por favor, verifique se é um PDF válido."
	}
}
