package notion

import (
	"testing"
	"time"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
)

func TestPropertyBuilders(t *testing.T) {
	title := Title("Acme")
	assert.Equal(t, notionapi.PropertyTypeTitle, title.Type)
	assert.Equal(t, "Acme", PlainText(title.Title))

	rt := RichText("Go")
	assert.Equal(t, "Go", PlainText(rt.RichText))

	sel := Select("In Progress")
	assert.Equal(t, "In Progress", sel.Select.Name)

	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	d := Date(at)
	if assert.NotNil(t, d.Date) && assert.NotNil(t, d.Date.Start) {
		assert.True(t, time.Time(*d.Date.Start).Equal(at))
	}
}

func TestPlainValue(t *testing.T) {
	at := notionapi.Date(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name string
		prop notionapi.Property
		want any
	}{
		{"title", &notionapi.TitleProperty{Title: []notionapi.RichText{{PlainText: "Acme"}}}, "Acme"},
		{"rich_text", &notionapi.RichTextProperty{RichText: []notionapi.RichText{{PlainText: "X"}, {PlainText: "1"}}}, "X1"},
		{"select", &notionapi.SelectProperty{Select: notionapi.Option{Name: "Complete"}}, "Complete"},
		{"date", &notionapi.DateProperty{Date: &notionapi.DateObject{Start: &at}}, time.Time(at)},
		{"empty_date", &notionapi.DateProperty{}, nil},
		{"number", &notionapi.NumberProperty{Number: 7.5}, 7.5},
		{"checkbox", &notionapi.CheckboxProperty{Checkbox: true}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainValue(tt.prop))
		})
	}
}
