// Package audio plays the optional activation sound. It uses the beep
// library to decode WAV, OGG and MP3 files and mixes them at a configured
// volume.
package audio
