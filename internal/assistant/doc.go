// Package assistant talks to the chat model behind the music assistant view.
//
// Ask tries the primary OpenAI-compatible completions endpoint first. On any
// failure (network, non-2xx, malformed or blank answer) it makes exactly one
// call to the alternative endpoint, and if that fails too the reply is the
// fixed Apology text. Callers never see an error; Reply.Tier tells them which
// path answered.
//
// Conversation keeps the session's messages in order. Nothing is persisted.
package assistant
