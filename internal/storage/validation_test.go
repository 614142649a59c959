package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/Veraticus/sw/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestValidateContext(t *testing.T) {
	tests := []struct {
		ctx     context.Context
		name    string
		wantErr bool
	}{
		{
			name:    "valid context",
			ctx:     context.Background(),
			wantErr: false,
		},
		{
			name:    "nil context",
			ctx:     nil,
			wantErr: true,
		},
		{
			name: "canceled context still valid",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			}(),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContext(tt.ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateContext() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateString(t *testing.T) {
	tests := []struct {
		name      string
		str       string
		paramName string
		wantErr   bool
	}{
		{
			name:      "valid string",
			str:       "test",
			paramName: "param",
			wantErr:   false,
		},
		{
			name:      "empty string",
			str:       "",
			paramName: "param",
			wantErr:   true,
		},
		{
			name:      "whitespace only",
			str:       "   ",
			paramName: "param",
			wantErr:   true,
		},
		{
			name:      "string with spaces",
			str:       "  test  ",
			paramName: "param",
			wantErr:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateString(tt.str, tt.paramName)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateString() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), tt.paramName) {
				t.Errorf("validateString() error should contain param name %s, got %v", tt.paramName, err)
			}
		})
	}
}

func TestValidateMovements(t *testing.T) {
	tests := []struct {
		name      string
		movements []model.Movement
		wantErr   bool
	}{
		{
			name:      "nil slice",
			movements: nil,
		},
		{
			name: "single line notes",
			movements: []model.Movement{
				{ID: 1, Note: "groceries at the market"},
				{ID: 2, Note: ""},
			},
		},
		{
			name: "newline in note",
			movements: []model.Movement{
				{ID: 1, Note: "first\nsecond"},
			},
			wantErr: true,
		},
		{
			name: "carriage return in note",
			movements: []model.Movement{
				{ID: 7, Note: "first\rsecond"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateMovements(tt.movements)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidNote)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
