package telegram

import (
	"encoding/base64"
	"fmt"

	"community-helper-bot/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Keyboard is a reply keyboard, one slice of button labels per row.
type Keyboard [][]string

// Outgoing is one message to send. Kind defaults to plain text; media kinds
// carry raw bytes in Media.
type Outgoing struct {
	ChatID         int64
	Text           string
	Kind           models.ResponseKind
	Media          []byte
	FileName       string
	Keyboard       Keyboard
	RemoveKeyboard bool
	ReplyTo        int
}

func Text(chatID int64, text string) Outgoing {
	return Outgoing{ChatID: chatID, Text: text}
}

func WithKeyboard(chatID int64, text string, kb Keyboard) Outgoing {
	return Outgoing{ChatID: chatID, Text: text, Keyboard: kb}
}

// Reply answers messageID in chatID.
func Reply(chatID int64, messageID int, text string) Outgoing {
	return Outgoing{ChatID: chatID, Text: text, ReplyTo: messageID}
}

// File sends data as a named document with an optional caption.
func File(chatID int64, name string, data []byte, caption string) Outgoing {
	return Outgoing{ChatID: chatID, Kind: models.ResponseKindDocument, Media: data, FileName: name, Text: caption}
}

// FromResponse renders a stored rule. Media payloads are base64 in storage and
// are decoded here.
func FromResponse(chatID int64, r *models.Response) (Outgoing, error) {
	if !r.Kind.IsMedia() {
		return Outgoing{ChatID: chatID, Text: r.Content}, nil
	}
	data, err := base64.StdEncoding.DecodeString(r.Content)
	if err != nil {
		return Outgoing{}, fmt.Errorf("decode %s payload for %q: %w", r.Kind, r.Trigger, err)
	}
	return Outgoing{ChatID: chatID, Kind: r.Kind, Media: data, FileName: r.Kind.FileName()}, nil
}

// EncodeMedia is the storage encoding for attachment bytes.
func EncodeMedia(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Chattable converts o into the Bot API request.
func (o Outgoing) Chattable() (tgbotapi.Chattable, error) {
	if o.Kind == "" || !o.Kind.IsMedia() {
		if o.Text == "" {
			return nil, fmt.Errorf("empty text message for chat %d", o.ChatID)
		}
		msg := tgbotapi.NewMessage(o.ChatID, o.Text)
		msg.ReplyToMessageID = o.ReplyTo
		msg.ReplyMarkup = o.markup()
		return msg, nil
	}

	name := o.FileName
	if name == "" {
		name = o.Kind.FileName()
	}
	file := tgbotapi.FileBytes{Name: name, Bytes: o.Media}

	switch o.Kind {
	case models.ResponseKindPhoto:
		msg := tgbotapi.NewPhoto(o.ChatID, file)
		msg.Caption = o.Text
		msg.ReplyMarkup = o.markup()
		return msg, nil
	case models.ResponseKindVideo:
		msg := tgbotapi.NewVideo(o.ChatID, file)
		msg.Caption = o.Text
		msg.ReplyMarkup = o.markup()
		return msg, nil
	case models.ResponseKindAudio:
		msg := tgbotapi.NewAudio(o.ChatID, file)
		msg.Caption = o.Text
		msg.ReplyMarkup = o.markup()
		return msg, nil
	default:
		msg := tgbotapi.NewDocument(o.ChatID, file)
		msg.Caption = o.Text
		msg.ReplyMarkup = o.markup()
		return msg, nil
	}
}

func (o Outgoing) markup() any {
	if o.RemoveKeyboard {
		return tgbotapi.NewRemoveKeyboard(true)
	}
	if len(o.Keyboard) == 0 {
		return nil
	}
	rows := make([][]tgbotapi.KeyboardButton, 0, len(o.Keyboard))
	for _, labels := range o.Keyboard {
		row := make([]tgbotapi.KeyboardButton, 0, len(labels))
		for _, label := range labels {
			row = append(row, tgbotapi.NewKeyboardButton(label))
		}
		rows = append(rows, row)
	}
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}
