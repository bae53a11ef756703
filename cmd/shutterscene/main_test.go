package main

import (
	"errors"
	"flag"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lukaszgryglicki/shutterscene/internal/shutterscene"
)

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 1, exitCode(errors.New("boom")))

	_, err := shutterscene.ParseOptions("shutterscene", []string{"-h"})
	assert.ErrorIs(t, err, flag.ErrHelp)
	assert.Equal(t, 0, exitCode(err), "help is not a failure")
	assert.Equal(t, 0, exitCode(fmt.Errorf("wrapped: %w", flag.ErrHelp)))

	_, err = shutterscene.ParseOptions("shutterscene", []string{"--num_frames=0"})
	assert.Equal(t, 1, exitCode(err))
}
