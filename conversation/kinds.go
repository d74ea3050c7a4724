package conversation

import (
	"strings"

	"community-helper-bot/models"
)

var kindLabels = map[models.ResponseKind]string{
	models.ResponseKindText:     "نص",
	models.ResponseKindPhoto:    "صورة",
	models.ResponseKindVideo:    "فيديو",
	models.ResponseKindAudio:    "صوت",
	models.ResponseKindDocument: "ملف",
	models.ResponseKindLink:     "رابط",
}

// KindLabel is the keyboard label shown for kind.
func KindLabel(kind models.ResponseKind) string {
	return kindLabels[kind]
}

// KindLabels returns the labels in keyboard order.
func KindLabels() []string {
	labels := make([]string, 0, len(models.ResponseKinds))
	for _, k := range models.ResponseKinds {
		labels = append(labels, kindLabels[k])
	}
	return labels
}

// ParseKindLabel maps a keyboard label, or the kind's own name, to a kind.
func ParseKindLabel(label string) (models.ResponseKind, bool) {
	label = strings.TrimSpace(label)
	for kind, l := range kindLabels {
		if l == label {
			return kind, true
		}
	}
	kind := models.ResponseKind(strings.ToLower(label))
	return kind, kind.Valid()
}
