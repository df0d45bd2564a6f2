package backend

import (
	"encoding/json"
	"errors"
	"strings"
)

// Бэкенды отвечают в двух известных формах конверта: список контент-блоков
// с тегами типов и вложенный объект output.message.content. Извлечение
// чистого текста — обязанность транспорта, парсер вердиктов конвертов
// не видит.

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type responseEnvelope struct {
	Content []contentBlock `json:"content"`
	Output  *struct {
		Message struct {
			Content []contentBlock `json:"content"`
		} `json:"message"`
	} `json:"output"`
	Text    string `json:"text"`
	Message string `json:"message"`
}

var errNoText = errors.New("no text content in response envelope")

// ExtractText достаёт текст из любой из известных форм конверта.
func ExtractText(raw []byte) (string, error) {
	var env responseEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", err
	}

	if text := joinBlocks(env.Content); text != "" {
		return text, nil
	}
	if env.Output != nil {
		if text := joinBlocks(env.Output.Message.Content); text != "" {
			return text, nil
		}
	}
	if strings.TrimSpace(env.Text) != "" {
		return env.Text, nil
	}
	if strings.TrimSpace(env.Message) != "" {
		return env.Message, nil
	}
	return "", errNoText
}

// joinBlocks склеивает текстовые блоки. Блоки без тега тоже считаются
// текстовыми: лёгкий бэкенд тег не проставляет.
func joinBlocks(blocks []contentBlock) string {
	var parts []string
	for _, b := range blocks {
		if b.Type != "" && b.Type != "text" {
			continue
		}
		if strings.TrimSpace(b.Text) == "" {
			continue
		}
		parts = append(parts, b.Text)
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
