package telegram

import (
	"testing"

	"community-helper-bot/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUpdateAndFromUpdate_Command(t *testing.T) {
	body := []byte(`{
		"update_id": 10,
		"message": {
			"message_id": 5,
			"from": {"id": 42, "is_bot": false, "first_name": "Ali", "username": "ali"},
			"chat": {"id": 42, "type": "private"},
			"date": 1700000000,
			"text": "/start 7112140383",
			"entities": [{"type": "bot_command", "offset": 0, "length": 6}]
		}
	}`)

	update, err := ParseUpdate(body)
	require.NoError(t, err)

	in, ok := FromUpdate(update)
	require.True(t, ok)
	assert.Equal(t, 10, in.UpdateID)
	assert.Equal(t, int64(42), in.AuthorID)
	assert.Equal(t, ChatPrivate, in.ChatKind)
	assert.Equal(t, "start", in.Command)
	assert.Equal(t, "7112140383", in.Args)
	assert.Equal(t, "ali", in.Handle())
	assert.Nil(t, in.Attachment)
}

func TestFromUpdate_PhotoWithCaption(t *testing.T) {
	update := tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 3,
		From:      &tgbotapi.User{ID: 1, FirstName: "Sara"},
		Chat:      &tgbotapi.Chat{ID: -100, Type: "supergroup"},
		Caption:   "Rules",
		Photo: []tgbotapi.PhotoSize{
			{FileID: "small", Width: 90},
			{FileID: "large", Width: 1280},
		},
	}}

	in, ok := FromUpdate(update)
	require.True(t, ok)
	assert.True(t, in.ChatKind.IsGroup())
	assert.Equal(t, "Rules", in.Body())
	assert.Equal(t, "1", in.Handle(), "no username falls back to the numeric identity")
	require.NotNil(t, in.Attachment)
	assert.Equal(t, models.ResponseKindPhoto, in.Attachment.Kind)
	assert.Equal(t, "large", in.Attachment.FileID)
}

func TestFromUpdate_VoiceIsAudio(t *testing.T) {
	update := tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:  &tgbotapi.Chat{ID: 1, Type: "private"},
		Voice: &tgbotapi.Voice{FileID: "v1"},
	}}
	in, ok := FromUpdate(update)
	require.True(t, ok)
	assert.Equal(t, models.ResponseKindAudio, in.Attachment.Kind)
}

func TestFromUpdate_IgnoresNonMessages(t *testing.T) {
	_, ok := FromUpdate(tgbotapi.Update{EditedMessage: &tgbotapi.Message{}})
	assert.False(t, ok)
}

func TestFromResponse(t *testing.T) {
	out, err := FromResponse(1, &models.Response{Trigger: "hi", Kind: models.ResponseKindLink, Content: "https://t.me/x"})
	require.NoError(t, err)
	assert.Equal(t, "https://t.me/x", out.Text)
	assert.Empty(t, out.Media)

	out, err = FromResponse(1, &models.Response{Trigger: "pic", Kind: models.ResponseKindPhoto, Content: EncodeMedia([]byte{0xff, 0xd8})})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8}, out.Media)
	assert.Equal(t, "image.jpg", out.FileName)

	_, err = FromResponse(1, &models.Response{Trigger: "bad", Kind: models.ResponseKindVideo, Content: "%%%"})
	assert.Error(t, err)
}

func TestChattable(t *testing.T) {
	c, err := WithKeyboard(1, "menu", Keyboard{{"a", "b"}, {"c"}}).Chattable()
	require.NoError(t, err)
	msg, ok := c.(tgbotapi.MessageConfig)
	require.True(t, ok)
	kb, ok := msg.ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
	require.True(t, ok)
	assert.Len(t, kb.Keyboard, 2)
	assert.Equal(t, "c", kb.Keyboard[1][0].Text)

	c, err = Outgoing{ChatID: 1, Kind: models.ResponseKindAudio, Media: []byte("x")}.Chattable()
	require.NoError(t, err)
	audio, ok := c.(tgbotapi.AudioConfig)
	require.True(t, ok)
	assert.Equal(t, "audio.mp3", audio.File.(tgbotapi.FileBytes).Name)

	c, err = File(1, "referrals.xlsx", []byte("x"), "export").Chattable()
	require.NoError(t, err)
	doc, ok := c.(tgbotapi.DocumentConfig)
	require.True(t, ok)
	assert.Equal(t, "export", doc.Caption)

	_, err = Text(1, "").Chattable()
	assert.Error(t, err)
}
