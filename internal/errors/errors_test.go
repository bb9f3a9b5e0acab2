// Copyright (C) 2025 Dyne.org foundation
// designed, written and maintained by Denis Roio <jaromil@dyne.org>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorMessageFormats(t *testing.T) {
	underlying := stderrors.New("boom")

	tests := []struct {
		err  *Error
		want string
	}{
		{New(CodePolicy, "denied"), "denied"},
		{Wrap(CodeIO, "read failed", underlying), "read failed: boom"},
		{&Error{Code: CodeIO, Err: underlying}, "boom"},
		{&Error{Code: CodeIO}, "io"},
	}
	for _, tc := range tests {
		if got := tc.err.Error(); got != tc.want {
			t.Errorf("Error() = %q, want %q", got, tc.want)
		}
	}
}

func TestUnwrap(t *testing.T) {
	underlying := stderrors.New("boom")
	wrapped := Wrap(CodeIO, "read failed", underlying)
	if !stderrors.Is(wrapped, underlying) {
		t.Fatal("expected errors.Is to find the underlying error")
	}
}

func TestCodeOf(t *testing.T) {
	err := New(CodePolicy, "denied")
	if CodeOf(err) != CodePolicy {
		t.Fatalf("expected policy code, got %q", CodeOf(err))
	}
	doubleWrapped := fmt.Errorf("outer: %w", err)
	if CodeOf(doubleWrapped) != CodePolicy {
		t.Fatalf("expected code through fmt wrapping, got %q", CodeOf(doubleWrapped))
	}
	if CodeOf(stderrors.New("plain")) != "" {
		t.Fatal("expected empty code for uncoded error")
	}
}
