package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/ostrab/moonstrike/internal/audio"
	"github.com/ostrab/moonstrike/internal/config"
	"github.com/ostrab/moonstrike/internal/loop"
	"golang.org/x/term"
)

func main() {
	tun, err := config.LoadTuningFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad tuning file: %v\n", err)
		os.Exit(1)
	}

	var player audio.Player
	if speaker, err := audio.NewSpeakerPlayer(config.GetEnv("MOONSTRIKE_AUDIO", "")); err == nil {
		player = speaker
	} else {
		// No audio device; fall back to the terminal bell.
		player = audio.NewBellPlayer()
	}
	defer player.Close()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	reader := bufio.NewReader(os.Stdin)
	opts := loop.Options{
		ReducedMotion: config.GetEnv("MOONSTRIKE_REDUCED_MOTION", "") != "",
		SoundEnabled:  config.GetEnv("MOONSTRIKE_SOUND", "1") != "0",
		Player:        player,
		Tuning:        &tun,
		AssetDir:      config.GetEnv("MOONSTRIKE_ASSETS", ""),
	}
	if err := loop.Run(reader, os.Stdout, opts); err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "playback error: %v\n", err)
		os.Exit(1)
	}
}
