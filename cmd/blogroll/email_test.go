package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedmesh/blogroll/pkg/config"
)

func TestSMTPSender_build(t *testing.T) {
	cfg := config.EmailConfig{Host: "smtp.example.com", Port: 587, From: "noreply@mysite.com"}
	sender := NewSMTPSender(cfg)

	msg := sender.build("owner@mysite.com", "👍 New recommendation: Example", "<p>hello</p>", "hello")

	assert.Contains(t, msg, "From: noreply@mysite.com\r\n")
	assert.Contains(t, msg, "To: owner@mysite.com\r\n")
	assert.Contains(t, msg, "Subject: ")
	assert.NotContains(t, msg, "Subject: 👍", "subject must be encoded for transport")
	assert.Contains(t, msg, "Content-Type: multipart/alternative")
	assert.Contains(t, msg, "Content-Type: text/plain; charset=utf-8\r\n\r\nhello")
	assert.Contains(t, msg, "Content-Type: text/html; charset=utf-8\r\n\r\n<p>hello</p>")
}

func TestLogSender_Send(t *testing.T) {
	require.NoError(t, LogSender{}.Send(context.Background(), "owner@mysite.com", "subject", "<p></p>", "text"))
}
