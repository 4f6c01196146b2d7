/*
Weirsrv starts a weir HTTP parsing server and begins listening for requests.

Usage:

	weirsrv [flags]
	weirsrv [flags] -l [[ADDRESS]:PORT]

By default it listens on localhost:8080. This can be changed with the
--listen/-l flag (or its environment variable).

If a token secret is not given, one is generated and seeded from a random
source. Tokens signed with a generated secret become invalid as soon as the
server shuts down, which is fine for testing but not for production use.

The flags are:

	-v, --version
		Give the current version of weir and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address, in BIND_ADDRESS:PORT or :PORT format.
		Defaults to the value of WEIR_LISTEN_ADDRESS, or localhost:8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing bearer tokens. Repeated until
		it is at least 32 bytes; the maximum size is 64 bytes. Defaults to
		the value of WEIR_TOKEN_SECRET, or a randomly generated secret.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of: inmem,
		sqlite. sqlite needs the path to a data directory, e.g.
		sqlite:path/to/data. Defaults to the value of WEIR_DATABASE, or
		inmem.
*/
package main

import (
	"crypto/rand"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/dekarrin/weir/internal/version"
	"github.com/dekarrin/weir/server"
)

const (
	EnvListen = "WEIR_LISTEN_ADDRESS"
	EnvSecret = "WEIR_TOKEN_SECRET"
	EnvDB     = "WEIR_DATABASE"
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of weir and then exit.")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret  = pflag.StringP("secret", "s", "", "Use the given secret for token signing.")
	flagDB      = pflag.String("db", "", "Use the given DB connection string.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintln(os.Stderr, "Too many arguments\nDo -h for help.")
		os.Exit(1)
	}

	addr, port, err := resolveListenAddr()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	db, err := resolveDB()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	secret, err := resolveSecret()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	srv, err := server.New(server.Config{TokenSecret: secret, DB: db})
	if err != nil {
		log.Fatalf("FATAL could not start server: %s", err.Error())
	}

	tok, err := srv.IssueOperatorToken(24 * time.Hour)
	if err != nil {
		log.Fatalf("FATAL could not issue operator token: %s", err.Error())
	}
	log.Printf("INFO  Operator bearer token (valid 24h): %s", tok)

	log.Printf("INFO  Starting weir server %s on %s:%d...", version.Current, addr, port)
	if err := srv.ServeForever(addr, port); err != nil {
		log.Fatalf("FATAL server exited: %s", err.Error())
	}
}

func resolveListenAddr() (addr string, port int, err error) {
	listenAddr := os.Getenv(EnvListen)
	if pflag.Lookup("listen").Changed {
		listenAddr = *flagListen
	}
	if listenAddr == "" {
		return "localhost", 8080, nil
	}

	parts := strings.SplitN(listenAddr, ":", 2)
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("listen address is not in ADDRESS:PORT or :PORT format")
	}
	port, err = strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, fmt.Errorf("%q is not a valid port number", parts[1])
	}
	return parts[0], port, nil
}

func resolveDB() (server.Database, error) {
	connStr := os.Getenv(EnvDB)
	if pflag.Lookup("db").Changed {
		connStr = *flagDB
	}
	if connStr == "" {
		return server.Database{Type: server.DatabaseInMemory}, nil
	}
	return server.ParseDBConnString(connStr)
}

func resolveSecret() ([]byte, error) {
	secretStr := os.Getenv(EnvSecret)
	if pflag.Lookup("secret").Changed {
		secretStr = *flagSecret
	}

	if secretStr == "" {
		secret := make([]byte, server.MaxSecretSize)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("could not generate token secret: %w", err)
		}
		log.Printf("WARN  Using generated token secret; all tokens issued will become invalid at shutdown")
		return secret, nil
	}

	secret := []byte(secretStr)
	for len(secret) < server.MinSecretSize {
		secret = append(secret, secret...)
	}
	if len(secret) > server.MaxSecretSize {
		return nil, fmt.Errorf("token secret is %d bytes, but it must be <= %d bytes", len(secret), server.MaxSecretSize)
	}
	return secret, nil
}
