package main

import (
	"bytes"
	"testing"

	"qc-dashboard/internal/features/bulkorders/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPrintSession(t *testing.T) {
	s := &domain.FetchSession{
		ID:       uuid.MustParse("6f1c2d1e-7a51-4cf7-9a8d-2a0a5e7c1b00"),
		State:    domain.SessionCompleted,
		Pages:    2,
		Fetched:  5,
		Kept:     3,
		AfterTag: "T9",
		Notices: []domain.Notice{
			{Level: domain.NoticeInfo, Title: "Fetch complete", Message: "3 orders"},
		},
	}

	var buf bytes.Buffer
	printSession(&buf, s)

	out := buf.String()
	assert.Contains(t, out, "[info] Fetch complete: 3 orders\n")
	assert.Contains(t, out, "session 6f1c2d1e-7a51-4cf7-9a8d-2a0a5e7c1b00 completed: 2 page(s), 5 fetched, 3 kept\n")
	assert.Contains(t, out, "resume token: T9\n")
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["fetch"])
	assert.True(t, names["migrate"])

	for _, flag := range []string{"from", "to", "mode", "import"} {
		assert.NotNil(t, fetchCmd.Flags().Lookup(flag), flag)
	}
	assert.Equal(t, "completion", fetchCmd.Flags().Lookup("mode").DefValue)
}
