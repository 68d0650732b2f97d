// Package errtrans maps backend and transport error messages to the
// user-facing Portuguese messages shown by the client.
package errtrans

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/aussiebroadwan/devhub/pkg/httpx"
)

const (
	// MessageUnknown is returned for an empty message.
	MessageUnknown = "Erro desconhecido. Tente novamente."

	// MessageConnectivity is used when no response was received.
	MessageConnectivity = "Erro de conexão. Verifique sua internet."

	// MessageFallback is used when nothing else describes the failure.
	MessageFallback = "Erro ao processar requisição. Tente novamente."
)

var statusMessages = map[int]string{
	http.StatusBadRequest:          "Requisição inválida. Verifique os dados enviados.",
	http.StatusUnauthorized:        "Acesso não autorizado. Faça login novamente.",
	http.StatusForbidden:           "Você não tem permissão para acessar este recurso.",
	http.StatusNotFound:            "Recurso não encontrado.",
	http.StatusConflict:            "Conflito ao processar a requisição.",
	http.StatusUnprocessableEntity: "Dados inválidos. Verifique as informações fornecidas.",
	http.StatusTooManyRequests:     "Muitas tentativas. Aguarde alguns instantes.",
	http.StatusInternalServerError: "Erro interno do servidor. Tente novamente mais tarde.",
	http.StatusBadGateway:          "Erro de comunicação com o servidor.",
	http.StatusServiceUnavailable:  "Serviço temporariamente indisponível.",
	http.StatusGatewayTimeout:      "Tempo limite de conexão excedido.",
}

// Translator holds an ordered message dictionary. It is safe for concurrent
// use and implements httpx.Translator.
type Translator struct {
	mu   sync.RWMutex
	keys []string
	dict map[string]string
}

var _ httpx.Translator = (*Translator)(nil)

// New returns a Translator seeded with the default dictionary.
func New() *Translator {
	t := &Translator{dict: make(map[string]string, len(defaultDictionary))}
	for _, e := range defaultDictionary {
		t.set(e.key, e.value)
	}
	return t
}

// Translate returns the dictionary entry for msg. An exact match wins;
// otherwise the first key (in insertion order) that occurs in msg, ignoring
// case, is used. Unknown messages are returned verbatim.
func (t *Translator) Translate(msg string) string {
	if msg == "" {
		return MessageUnknown
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if v, ok := t.dict[msg]; ok {
		return v
	}

	lower := strings.ToLower(msg)
	for _, k := range t.keys {
		if strings.Contains(lower, strings.ToLower(k)) {
			return t.dict[k]
		}
	}

	return msg
}

// Extract picks the most specific message carried by e and translates it.
// Precedence: nested payload message, top-level payload message, transport
// message, then the status table.
func (t *Translator) Extract(e *httpx.Error) string {
	if e == nil {
		return MessageFallback
	}

	if e.Payload != nil {
		if e.Payload.DataMessage != "" {
			return t.Translate(e.Payload.DataMessage)
		}
		if e.Payload.Message != "" {
			return t.Translate(e.Payload.Message)
		}
	}

	if e.Message != "" {
		return t.Translate(e.Message)
	}

	if e.Status > 0 {
		return StatusMessage(e.Status)
	}

	return MessageFallback
}

// Connectivity returns the message for requests that got no response.
func (t *Translator) Connectivity() string { return MessageConnectivity }

// StatusMessage returns the generic message for an HTTP status.
func StatusMessage(status int) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	return fmt.Sprintf("Erro HTTP %d. Tente novamente.", status)
}

// AddTranslation adds or replaces one entry. A replaced key keeps its
// position; new keys are matched after existing ones.
func (t *Translator) AddTranslation(key, value string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.set(key, value)
}

// AddTranslations merges entries. Map iteration order is random, so new keys
// are appended in sorted order to keep matching deterministic.
func (t *Translator) AddTranslations(entries map[string]string) {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, k := range keys {
		t.set(k, entries[k])
	}
}

// Len returns the number of dictionary entries.
func (t *Translator) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.keys)
}

func (t *Translator) set(key, value string) {
	if key == "" {
		return
	}
	if _, ok := t.dict[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.dict[key] = value
}
