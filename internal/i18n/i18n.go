// Package i18n provides internationalization support for the navigation service.
// It handles translation of user-facing messages and error messages.
package i18n

import (
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLocale is the default language locale (English).
	DefaultLocale = "en"
	// AcceptLanguageHeader is the HTTP header name for language preference.
	AcceptLanguageHeader = "Accept-Language"
)

var (
	// defaultTranslator is the singleton translator instance.
	defaultTranslator *Translator
	translatorOnce    sync.Once
)

// Translator handles message translation for different locales.
type Translator struct {
	messages map[string]map[string]string
}

// NewTranslator creates a new translator with the default messages.
func NewTranslator() *Translator {
	return &Translator{
		messages: getDefaultMessages(),
	}
}

// GetTranslator returns the default singleton translator instance.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Translate returns the message for key in locale, falling back to
// DefaultLocale and then to the key itself.
func (t *Translator) Translate(key, locale string) string {
	if msg, ok := t.messages[locale][key]; ok {
		return msg
	}
	if msg, ok := t.messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Supports reports whether messages exist for locale.
func (t *Translator) Supports(locale string) bool {
	_, ok := t.messages[locale]
	return ok
}

// GetLocale picks the supported locale the client prefers most, reading
// the q-weights of the Accept-Language header. Region subtags are ignored
// and ties keep header order.
func GetLocale(c *gin.Context) string {
	return NegotiateLocale(GetTranslator(), c.GetHeader(AcceptLanguageHeader))
}

// NegotiateLocale resolves an Accept-Language value against t.
func NegotiateLocale(t *Translator, acceptLanguage string) string {
	best, bestQ := DefaultLocale, 0.0

	for _, part := range strings.Split(acceptLanguage, ",") {
		tag, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		lang, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(tag)), "-")
		if !t.Supports(lang) {
			continue
		}

		q := 1.0
		if v, ok := strings.CutPrefix(strings.TrimSpace(params), "q="); ok {
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil {
				continue
			}
			q = parsed
		}
		if q > bestQ {
			best, bestQ = lang, q
		}
	}

	return best
}

// getDefaultMessages returns the built-in en, pt and zh messages.
func getDefaultMessages() map[string]map[string]string {
	return map[string]map[string]string{
		"en": {
			ErrKeyInvalidRequest:      "Invalid request",
			ErrKeyInternalError:       "An unexpected error occurred",
			ErrKeyAPIKeyRequired:      "API key is required",
			ErrKeyInvalidAPIKey:       "Invalid API key",
			ErrKeyNotFound:            "Not found",
			ErrKeyMethodNotAllowed:    "Method not allowed",
			ErrKeyRateLimitExceeded:   "Too many requests, please try again later",
			ErrKeyTimeout:             "Request timed out",
			ErrKeyUpstreamUnavailable: "Failed to get database content",
			ErrKeyCircuitOpen:         "Content source is temporarily unavailable, please try again later",
			ErrKeyJournalUnavailable:  "Refresh history is not available",
			ErrKeyValidationTag:       "tag: must be at most 200 characters without control characters",
			ErrKeyValidationLimit:     "limit: must be between 1 and 100",
		},
		"pt": {
			ErrKeyInvalidRequest:      "Requisição inválida",
			ErrKeyInternalError:       "Ocorreu um erro inesperado",
			ErrKeyAPIKeyRequired:      "Chave de API é obrigatória",
			ErrKeyInvalidAPIKey:       "Chave de API inválida",
			ErrKeyNotFound:            "Não encontrado",
			ErrKeyMethodNotAllowed:    "Método não permitido",
			ErrKeyRateLimitExceeded:   "Muitas requisições, tente novamente mais tarde",
			ErrKeyTimeout:             "Tempo limite da requisição esgotado",
			ErrKeyUpstreamUnavailable: "Falha ao obter o conteúdo da base de dados",
			ErrKeyCircuitOpen:         "Fonte de conteúdo temporariamente indisponível, tente novamente mais tarde",
			ErrKeyJournalUnavailable:  "Histórico de atualizações indisponível",
			ErrKeyValidationTag:       "tag: deve ter no máximo 200 caracteres, sem caracteres de controle",
			ErrKeyValidationLimit:     "limit: deve estar entre 1 e 100",
		},
		"zh": {
			ErrKeyInvalidRequest:      "无效的请求",
			ErrKeyInternalError:       "发生意外错误",
			ErrKeyAPIKeyRequired:      "需要 API 密钥",
			ErrKeyInvalidAPIKey:       "无效的 API 密钥",
			ErrKeyNotFound:            "未找到",
			ErrKeyMethodNotAllowed:    "不允许的请求方法",
			ErrKeyRateLimitExceeded:   "请求过多，请稍后再试",
			ErrKeyTimeout:             "请求超时",
			ErrKeyUpstreamUnavailable: "获取数据库内容失败",
			ErrKeyCircuitOpen:         "内容源暂时不可用，请稍后再试",
			ErrKeyJournalUnavailable:  "刷新记录不可用",
			ErrKeyValidationTag:       "tag：最多 200 个字符，且不能包含控制字符",
			ErrKeyValidationLimit:     "limit：必须在 1 到 100 之间",
		},
	}
}
