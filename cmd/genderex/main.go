// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/walteh/genderex/cmd/genderex/opts"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) { w.Out = os.Stderr })).
		With().Timestamp().Logger()
	ctx = logger.WithContext(ctx)

	o := opts.New(GetVersionInfo().Version)
	if err := newRootCmd(o).ExecuteContext(ctx); err != nil {
		if o.UserLogger != nil {
			o.UserLogger.LogValidation(false, "Command failed", err)
		} else {
			logger.Error().Err(err).Msg("command failed")
		}
		cancel()
		os.Exit(1)
	}
}
