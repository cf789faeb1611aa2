package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
)

// Environment passed down to extension processes, mirroring the global flags.
const (
	EnvLedgerFile      = "CHIPBOOK_LEDGER_FILE"
	EnvDefaultCurrency = "CHIPBOOK_CURRENCY"
	EnvVerbose         = "CHIPBOOK_VERBOSE"
)

// RunExtension looks for a cbk-<subcommand> binary on the PATH and runs it
// with the remaining arguments, global flags travelling as environment
// variables. It reports whether an extension ran, and with which exit code.
func RunExtension(subcommand string, args []string) (bool, int) {
	name := "cbk-" + subcommand
	path, err := exec.LookPath(name)
	if err != nil {
		log.Printf("no %q on PATH: %v", name, err)
		return false, 0
	}

	ext := exec.Command(path, args...)
	ext.Stdin, ext.Stdout, ext.Stderr = os.Stdin, os.Stdout, os.Stderr
	ext.Env = append(os.Environ(),
		EnvLedgerFile+"="+*ledgerFile,
		EnvDefaultCurrency+"="+*defaultCurrency,
		EnvVerbose+"="+strconv.FormatBool(*Verbose),
	)

	err = ext.Run()
	if err == nil {
		return true, 0
	}
	var exit *exec.ExitError
	if errors.As(err, &exit) {
		return true, exit.ExitCode()
	}
	fmt.Fprintf(os.Stderr, "Error running extension %q: %v\n", name, err)
	return true, 1
}
