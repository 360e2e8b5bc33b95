package mindmap

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"mindweave/pkg/ai"
	"mindweave/pkg/common"
)

func TestSanitizeFragment(t *testing.T) {
	tests := []struct {
		name string
		res  extractResponse
		want common.Fragment
	}{
		{
			name: "clean response passes through",
			res: extractResponse{
				Entities: []extractEntity{
					{ID: "e1", Name: "Alpha", Description: "first", Type: "Concept"},
				},
				Relationships: []extractRelationship{
					{SourceName: "Alpha", TargetName: "Beta", Label: "knows"},
				},
			},
			want: common.Fragment{
				Entities: []common.Entity{
					{ID: "e1", Name: "Alpha", Description: "first", Type: "Concept"},
				},
				Relationships: []common.NameRelationship{
					{SourceName: "Alpha", TargetName: "Beta", Label: "knows"},
				},
			},
		},
		{
			name: "duplicate names collapse to the first occurrence",
			res: extractResponse{
				Entities: []extractEntity{
					{ID: "e1", Name: "Alpha", Type: "Concept"},
					{ID: "e2", Name: "ALPHA", Type: "Person"},
				},
			},
			want: common.Fragment{
				Entities: []common.Entity{
					{ID: "e1", Name: "Alpha", Type: "Concept"},
				},
			},
		},
		{
			name: "missing id gets a chunk-scoped default",
			res: extractResponse{
				Entities: []extractEntity{
					{Name: "Alpha", Type: "Concept"},
				},
			},
			want: common.Fragment{
				Entities: []common.Entity{
					{ID: "tmp_7_0", Name: "Alpha", Type: "Concept"},
				},
			},
		},
		{
			name: "unknown type normalized to Other",
			res: extractResponse{
				Entities: []extractEntity{
					{ID: "e1", Name: "Alpha", Type: "Widget"},
				},
			},
			want: common.Fragment{
				Entities: []common.Entity{
					{ID: "e1", Name: "Alpha", Type: "Other"},
				},
			},
		},
		{
			name: "self and incomplete relationships dropped",
			res: extractResponse{
				Entities: []extractEntity{
					{ID: "e1", Name: "Alpha", Type: "Concept"},
				},
				Relationships: []extractRelationship{
					{SourceName: "Alpha", TargetName: "alpha", Label: "self"},
					{SourceName: "Alpha", TargetName: "", Label: "no target"},
					{SourceName: "", TargetName: "Alpha", Label: "no source"},
				},
			},
			want: common.Fragment{
				Entities: []common.Entity{
					{ID: "e1", Name: "Alpha", Type: "Concept"},
				},
			},
		},
		{
			name: "whitespace collapsed in names and labels",
			res: extractResponse{
				Entities: []extractEntity{
					{ID: "e1", Name: "  Deep \n Learning ", Description: " multi \t space ", Type: "Concept"},
				},
			},
			want: common.Fragment{
				Entities: []common.Entity{
					{ID: "e1", Name: "Deep Learning", Description: "multi space", Type: "Concept"},
				},
			},
		},
		{
			name: "empty names removed entirely",
			res: extractResponse{
				Entities: []extractEntity{
					{ID: "e1", Name: "   ", Type: "Concept"},
				},
			},
			want: common.Fragment{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeFragment(tt.res, 7)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("sanitizeFragment() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExtractFromChunkDiscardsFailedAttemptOutput(t *testing.T) {
	// A failing call may still have partially decoded into the output
	// struct before erroring; nothing from that attempt may leak into
	// the fragment a later successful attempt produces.
	calls := 0
	fake := &fakeAIClient{
		format: func(name, prompt string, out any) error {
			calls++
			res := out.(*extractResponse)
			if calls == 1 {
				res.Entities = []extractEntity{
					{ID: "e1", Name: "Ghost", Type: "Concept"},
					{ID: "e2", Name: "Phantom", Type: "Concept"},
				}
				res.Relationships = []extractRelationship{
					{SourceName: "Ghost", TargetName: "Phantom", Label: "haunts"},
				}
				return errors.New("malformed response")
			}
			res.Entities = []extractEntity{
				{ID: "e1", Name: "Alpha", Type: "Concept"},
			}
			return nil
		},
	}

	client := NewClient(NewClientParams{
		AIClient:   fake,
		Gate:       ai.NewRateGate(ai.RateGateParams{MinDelay: 0}),
		MaxRetries: 2,
	})

	frag := client.extractFromChunk(context.Background(), Chunk{Index: 0, Text: "Alpha."}, "alpha")

	if calls != 2 {
		t.Fatalf("extraction made %d calls, want 2", calls)
	}
	want := common.Fragment{
		Entities: []common.Entity{
			{ID: "e1", Name: "Alpha", Type: "Concept"},
		},
	}
	if !reflect.DeepEqual(frag, want) {
		t.Errorf("extractFromChunk() = %+v, want only the successful attempt's data %+v", frag, want)
	}
}

func TestNormalizeEntityType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Concept", "Concept"},
		{"person", "Person"},
		{"ORGANIZATION", "Organization"},
		{" Location ", "Location"},
		{"Widget", "Other"},
		{"", "Other"},
	}

	for _, tt := range tests {
		if got := normalizeEntityType(tt.in); got != tt.want {
			t.Errorf("normalizeEntityType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
