package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// parseFlags parses the configuration flags found in args (without the
// program name).
//
// Flags:
//
//	-a dev server address in format [host]:[port]
//	-d journal database DSN
//	-c/-config json file path with configs
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-token-duration token duration (e.g., "1h", "30m")
//	-keep-alive stream keep-alive interval
//	-issue-token print a token for the given player id and exit
//	-r remote backend URL
//	-t campaign auth token
//	-request-timeout remote request timeout (e.g., "15s")
//	-create-timeout create round trip timeout
//	-ready-timeout initial hydration timeout
func parseFlags(args []string) (*StructuredConfig, error) {
	var serverAddress NetAddress
	var databaseDSN string
	var jsonConfigPath string
	var tokenSignKey string
	var tokenIssuer string
	var tokenDuration time.Duration
	var keepAlive time.Duration
	var issueTokenFor string
	var remoteURL string
	var authToken string
	var requestTimeout time.Duration
	var createTimeout time.Duration
	var readyTimeout time.Duration

	fs := flag.NewFlagSet("campaign-mirror", flag.ContinueOnError)
	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&databaseDSN, "d", "", "Journal database DSN")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	fs.DurationVar(&keepAlive, "keep-alive", 0, "Stream keep-alive interval")
	fs.StringVar(&issueTokenFor, "issue-token", "", "Print a signed token for this player id and exit")
	fs.StringVar(&remoteURL, "r", "", "Remote backend URL")
	fs.StringVar(&authToken, "t", "", "Campaign auth token")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 15s)")
	fs.DurationVar(&createTimeout, "create-timeout", 0, "Create round trip timeout")
	fs.DurationVar(&readyTimeout, "ready-timeout", 0, "Initial hydration timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			TokenSignKey:  tokenSignKey,
			TokenIssuer:   tokenIssuer,
			TokenDuration: tokenDuration,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Server: Server{
			HTTPAddress: serverAddress.String(),
			KeepAlive:   keepAlive,
		},
		Remote: Remote{
			URL:            remoteURL,
			AuthToken:      authToken,
			RequestTimeout: requestTimeout,
		},
		Mirror: Mirror{
			CreateTimeout: createTimeout,
			ReadyTimeout:  readyTimeout,
		},
		JSONFilePath:  jsonConfigPath,
		IssueTokenFor: issueTokenFor,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// It returns an empty string when neither Host nor Port are set.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// An empty host listens on every interface; any other host must be
// "localhost" or an IP address.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "" && host != "localhost" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
