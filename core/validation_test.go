package core

import (
	"errors"
	"testing"
)

func TestValidateSpan(t *testing.T) {
	tests := []struct {
		name    string
		span    Span
		wantErr error
	}{
		{
			name:    "valid single token span",
			span:    Span{1, 1, 1, 1},
			wantErr: nil,
		},
		{
			name:    "valid full span",
			span:    Span{1, 3, 1, 4},
			wantErr: nil,
		},
		{
			name:    "reversed source range",
			span:    Span{3, 2, 1, 1},
			wantErr: ErrReversedRange,
		},
		{
			name:    "reversed target range",
			span:    Span{1, 1, 4, 2},
			wantErr: ErrReversedRange,
		},
		{
			name:    "source index zero",
			span:    Span{0, 1, 1, 1},
			wantErr: ErrOutOfRange,
		},
		{
			name:    "target past end",
			span:    Span{1, 1, 1, 5},
			wantErr: ErrOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSpan(tt.span, 3, 4)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateSpan() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateSpan() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidSpan) {
				t.Errorf("ValidateSpan() error = %v, should wrap ErrInvalidSpan", err)
			}
		})
	}
}

func TestValidateAlignment(t *testing.T) {
	tests := []struct {
		name      string
		alignment Alignment
		wantErr   error
	}{
		{
			name:      "empty alignment",
			alignment: Alignment{},
			wantErr:   nil,
		},
		{
			name: "increasing with gaps",
			alignment: Alignment{Spans: []Span{
				{1, 1, 1, 2},
				{3, 4, 4, 4},
			}},
			wantErr: nil,
		},
		{
			name: "overlapping source",
			alignment: Alignment{Spans: []Span{
				{1, 2, 1, 1},
				{2, 3, 2, 2},
			}},
			wantErr: ErrOverlap,
		},
		{
			name: "crossing order",
			alignment: Alignment{Spans: []Span{
				{3, 3, 1, 1},
				{1, 1, 2, 2},
			}},
			wantErr: ErrOverlap,
		},
		{
			name: "invalid member span",
			alignment: Alignment{Spans: []Span{
				{1, 9, 1, 1},
			}},
			wantErr: ErrOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAlignment(tt.alignment, 4, 4)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateAlignment() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateAlignment() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidAlignment) {
				t.Errorf("ValidateAlignment() error = %v, should wrap ErrInvalidAlignment", err)
			}
		})
	}
}

func TestValidateChunk(t *testing.T) {
	if err := ValidateChunk(Chunk{Start: 2, End: 3, Label: "NP"}, 3); err != nil {
		t.Errorf("ValidateChunk() unexpected error = %v", err)
	}
	if err := ValidateChunk(Chunk{Start: 3, End: 2}, 3); !errors.Is(err, ErrReversedRange) {
		t.Errorf("ValidateChunk() error = %v, want %v", err, ErrReversedRange)
	}
	if err := ValidateChunk(Chunk{Start: 1, End: 4}, 3); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("ValidateChunk() error = %v, want %v", err, ErrOutOfRange)
	}
}
