package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubmissionStatus_String(t *testing.T) {
	assert.Equal(t, "new", StatusNew.String())
	assert.Equal(t, "pending", StatusPending.String())
	assert.Equal(t, "responded", StatusResponded.String())
	assert.Equal(t, "closed", StatusClosed.String())
}

func TestSubmissionStatus_IsValid(t *testing.T) {
	for _, s := range AllStatuses {
		assert.True(t, s.IsValid(), "expected %s to be valid", s)
	}

	invalid := []SubmissionStatus{"", "archived", "NEW", "read"}
	for _, s := range invalid {
		assert.False(t, s.IsValid(), "expected %q to be invalid", s)
	}
}

func TestParseStatus(t *testing.T) {
	edgeCases := []struct {
		input    string
		expected SubmissionStatus
		ok       bool
	}{
		{"new", StatusNew, true},
		{" Pending ", StatusPending, true},
		{"RESPONDED", StatusResponded, true},
		{"closed", StatusClosed, true},
		{"deleted", SubmissionStatus("deleted"), false},
		{"", SubmissionStatus(""), false},
	}

	for _, tc := range edgeCases {
		got, ok := ParseStatus(tc.input)
		assert.Equal(t, tc.ok, ok, "input %q", tc.input)
		assert.Equal(t, tc.expected, got, "input %q", tc.input)
	}
}

func TestParseReadFilter(t *testing.T) {
	assert.Equal(t, ReadFilterRead, ParseReadFilter("read"))
	assert.Equal(t, ReadFilterUnread, ParseReadFilter("Unread"))
	assert.Equal(t, ReadFilterAll, ParseReadFilter("all"))
	assert.Equal(t, ReadFilterAll, ParseReadFilter(""))
	assert.Equal(t, ReadFilterAll, ParseReadFilter("whatever"))
}
