package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	apperrors "github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/errors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "app error code", err: apperrors.Placement(errors.New("locked"), "group"), want: "placement"},
		{name: "wrapped app error", err: fmt.Errorf("item 3: %w", apperrors.Encoding(errors.New("too long"))), want: "encoding"},
		{name: "innermost type", err: fmt.Errorf("open: %w", &fs.PathError{Op: "open", Path: "x", Err: errors.New("denied")}), want: "errors_errorstring"},
		{name: "plain", err: errors.New("boom"), want: "errors_errorstring"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
