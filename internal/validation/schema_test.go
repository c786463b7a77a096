package validation

import (
	"errors"
	"strings"
	"testing"
)

const triggerSchema = `{
  "type": "object",
  "required": ["trigger"],
  "properties": {
    "trigger": {"type": "string", "enum": ["Submit", "Approve", "Reject"]},
    "hops": {"type": "integer", "minimum": 0}
  }
}`

func TestCompileRejectsMalformedSchema(t *testing.T) {
	if _, err := Compile("broken.json", []byte(`{"type": 12}`)); !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid, got %v", err)
	}
}

func TestValidateJSONAcceptsConformingDocument(t *testing.T) {
	schema := MustCompile("trigger.json", []byte(triggerSchema))
	if err := schema.ValidateJSON("fire.json", []byte(`{"trigger": "Approve", "hops": 2}`)); err != nil {
		t.Fatalf("expected document to validate, got %v", err)
	}
}

func TestValidateJSONCollectsIssues(t *testing.T) {
	schema := MustCompile("trigger.json", []byte(triggerSchema))
	err := schema.ValidateJSON("fire.json", []byte(`{"trigger": "Publish", "hops": -1}`))
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
	issues := Issues(err)
	if len(issues) != 2 {
		t.Fatalf("expected two issues, got %+v", issues)
	}
	locations := map[string]bool{}
	for _, issue := range issues {
		locations[issue.Location] = true
	}
	if !locations["/trigger"] || !locations["/hops"] {
		t.Fatalf("expected /trigger and /hops issues, got %+v", issues)
	}
	if !strings.HasPrefix(err.Error(), "fire.json: ") {
		t.Fatalf("expected document name in error, got %q", err.Error())
	}
}

func TestValidateJSONReportsDecodeFailure(t *testing.T) {
	schema := MustCompile("trigger.json", []byte(triggerSchema))
	err := schema.ValidateJSON("fire.json", []byte(`{"trigger":`))
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
	var docErr *DocumentValidationError
	if !errors.As(err, &docErr) || docErr.Cause == nil || len(docErr.Issues) != 0 {
		t.Fatalf("expected decode cause without issues, got %#v", err)
	}
}

func TestIssuesWrapsPlainErrors(t *testing.T) {
	issues := Issues(errors.New("boom"))
	if len(issues) != 1 || issues[0].Message != "boom" {
		t.Fatalf("unexpected issues %+v", issues)
	}
	if Issues(nil) != nil {
		t.Fatal("expected nil issues for nil error")
	}
}
