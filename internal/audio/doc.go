// Package audio plays a sound when a notification appears.
// It uses the beep library to decode WAV, OGG and MP3 files, caches the
// decoded buffers and picks the sound by notification severity.
package audio
