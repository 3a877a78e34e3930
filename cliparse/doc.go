// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Flags and Environment

	-p           PORT            Server port (default 3318)
	-d           DATABASE_URL    Database URL (required)
	-t           DATABASE_TYPE   sqlite (default) or postgres
	-admin-salt  ADMIN_KEY_SALT  Admin key salt (required)
	-ip-salt     IP_HASH_SALT    IP hash salt (defaults to the admin salt)
	-env-file                    dotenv file, default .env

CLI flags take precedence over environment variables, which take precedence
over the env file. FromEnv skips flag parsing; electionctl uses it.
*/
package cliparse
