package governance

import (
	"context"
	"testing"
)

func TestDefaultPolicyEngine_Evaluate(t *testing.T) {
	engine := NewDefaultPolicyEngine()
	ctx := context.Background()

	// Test Allow (Default)
	req1 := Request{Operation: "read_document"}
	res1, err := engine.Evaluate(ctx, req1)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if res1.Effect != EffectAllow {
		t.Errorf("Expected EffectAllow, got %s", res1.Effect)
	}

	// Test Deny
	engine.DenyOperation("delete_document")
	req2 := Request{Operation: "delete_document"}
	res2, err := engine.Evaluate(ctx, req2)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if res2.Effect != EffectDeny {
		t.Errorf("Expected EffectDeny, got %s", res2.Effect)
	}
}

func TestDefaultPolicyEngine_DenyArguments(t *testing.T) {
	engine := NewDefaultPolicyEngine()
	ctx := context.Background()

	if err := engine.DenyArguments(`\.\.`); err != nil {
		t.Fatalf("DenyArguments failed: %v", err)
	}

	res, err := engine.Evaluate(ctx, Request{
		Operation: "read_document",
		Arguments: `{"filename":"../../etc/passwd"}`,
	})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if res.Effect != EffectDeny {
		t.Errorf("Expected EffectDeny, got %s", res.Effect)
	}

	if err := engine.DenyArguments(`[invalid`); err == nil {
		t.Error("Expected error for invalid pattern")
	}
}
