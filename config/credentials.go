package config

import "os"

// Credentials holds the terminal login secrets. These are never embedded in
// Config and never serialized to disk or written to a log line.
type Credentials struct {
	Login        string
	Password     string
	Server       string
	TerminalPath string
}

// LoadCredentialsFromEnv reads the four credential fields from the process
// environment, mirroring chidi150c-coinbase/env.go's selective-loader idiom
// of pulling in only the keys the bot actually needs (here: GOLDCORE_LOGIN,
// GOLDCORE_PASSWORD, GOLDCORE_SERVER, GOLDCORE_TERMINAL_PATH) rather than
// importing an entire .env file wholesale.
func LoadCredentialsFromEnv() Credentials {
	return Credentials{
		Login:        os.Getenv("GOLDCORE_LOGIN"),
		Password:     os.Getenv("GOLDCORE_PASSWORD"),
		Server:       os.Getenv("GOLDCORE_SERVER"),
		TerminalPath: os.Getenv("GOLDCORE_TERMINAL_PATH"),
	}
}
