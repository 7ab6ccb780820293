package iter

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var errTerminal = errors.New("terminal")

func collect(t *testing.T, limit int, sequence func(func([]byte, error) bool)) ([]string, error) {
	t.Helper()

	var chunks []string
	for chunk, err := range sequence {
		if err != nil {
			return chunks, err
		}
		chunks = append(chunks, string(chunk))
		if len(chunks) == limit {
			break
		}
	}
	return chunks, nil
}

func TestConcat2(t *testing.T) {
	testCases := []struct {
		name           string
		limit          int
		expectedChunks []string
		expectedErr    error
	}{
		{name: "all", limit: -1, expectedChunks: []string{"a", "b", "c"}, expectedErr: errTerminal},
		{name: "stopped early", limit: 2, expectedChunks: []string{"a", "b"}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			sequence := Concat2(Chunks("a"), Paced(Chunks("b", "c"), 0), Fail(errTerminal))

			chunks, err := collect(t, testCase.limit, sequence)
			if !errors.Is(err, testCase.expectedErr) {
				t.Errorf("got %v, expected %v", err, testCase.expectedErr)
			}
			if diff := cmp.Diff(testCase.expectedChunks, chunks); diff != "" {
				t.Errorf("chunks mismatch (-expected +got):\n%s", diff)
			}
		})
	}
}
