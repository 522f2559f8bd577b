// Package audio plays the cue that accompanies each notification.
// Sounds are resolved through the freedesktop sound theme and played with the
// beep library on detached workers. When a sound cannot be played a short
// sequence of fallback tones is emitted instead.
package audio
