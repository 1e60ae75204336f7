package registry

import (
	"errors"
	"reflect"
	"testing"

	"github.com/fortuna/services/cfb-analytics-service/pkg/models"
)

type fixedParser struct{ key string }

func (p fixedParser) ParserKey() string                          { return p.key }
func (p fixedParser) ParsePlay(models.Play) []models.Participant { return nil }
func (p fixedParser) InferPosition(string, []models.Play) string { return "" }

func TestRegistry_Defaults(t *testing.T) {
	r := New()

	parser, err := r.Get("text")
	if err != nil {
		t.Fatalf("Get(text) error = %v", err)
	}
	if parser.ParserKey() != "text" {
		t.Errorf("ParserKey() = %s", parser.ParserKey())
	}
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := New()

	if _, err := r.Get("feed"); !errors.Is(err, ErrParserNotFound) {
		t.Errorf("expected ErrParserNotFound, got %v", err)
	}
}

func TestRegistry_Register(t *testing.T) {
	r := New()
	r.Register(fixedParser{key: "feed"})

	if _, err := r.Get("feed"); err != nil {
		t.Errorf("Get(feed) error = %v", err)
	}
	if got := r.Keys(); !reflect.DeepEqual(got, []string{"feed", "text"}) {
		t.Errorf("Keys() = %v", got)
	}
}
