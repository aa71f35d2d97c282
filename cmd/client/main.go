package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/smallwat3r/passcheck/internal/console"
	"github.com/smallwat3r/passcheck/internal/domain"
	"github.com/smallwat3r/passcheck/internal/utility"
)

const defaultBaseURL = "http://localhost:8080"

const (
	maxRetries = 5
	retryDelay = 1 * time.Second
)

var errSessionGone = errors.New("session not found, expired or locked")

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}


	switch os.Args[1] {
	case "check":
		if len(os.Args) != 3 {
			fmt.Fprintf(os.Stderr, "Usage: %s check <variant>\n", os.Args[0])
			os.Exit(1)
		}
		v, err := domain.ParseVariant(os.Args[2])
		if err != nil || v == domain.VariantExit {
			fmt.Fprintf(os.Stderr, "variant must be one of: 1, 2, 3\n")
			os.Exit(1)
		}
		ok, err := runCheck(serviceURL(), v, console.New(os.Stdin, os.Stdout))
		if err != nil {
			log.Fatalf("check failed: %v", err)
		}
		if !ok {
			os.Exit(2)
		}
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// serviceURL returns PASSCHECK_URL without a trailing slash.
func serviceURL() string {
	return strings.TrimRight(utility.Getenv("PASSCHECK_URL", defaultBaseURL), "/")
}

func printUsage() {
	fmt.Printf("Usage: %s <command> [arguments]\n", os.Args[0])
	fmt.Println("Run a password check against the passcheck service.")
	fmt.Println("\nCommands:")
	fmt.Println("  check <variant>   Start a check (1: validator, 2: simple, 3: secure)")
	fmt.Println("  help              Show this help message")
	fmt.Println("\nEnvironment variables:")
	fmt.Println("  PASSCHECK_URL     Base URL of the service (default: http://localhost:8080)")
}

// doRequestWithRetry retries while a proxy in front of the service answers
// 502, e.g. during a restart.
func doRequestWithRetry(req *http.Request) (*http.Response, error) {
	client := &http.Client{Timeout: 10 * time.Second}

	for i := 0; i < maxRetries; i++ {
		if i > 0 {
			log.Printf("server returned 502, retrying in %v... (%d/%d)", retryDelay, i, maxRetries-1)
			time.Sleep(retryDelay)
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, err
				}
				req.Body = body
			}
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusBadGateway {
			return resp, nil
		}

		resp.Body.Close()
	}

	return nil, fmt.Errorf("server unavailable after %d retries", maxRetries)
}

func postJSON(url string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return doRequestWithRetry(req)
}

func createSession(baseURL string, v domain.Variant) (domain.CreateSessionRes, error) {
	var res domain.CreateSessionRes

	resp, err := postJSON(baseURL+"/sessions", domain.CreateSessionReq{Variant: v})
	if err != nil {
		return res, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return res, fmt.Errorf("status %d, body: %s", resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return res, fmt.Errorf("decode response: %w", err)
	}
	return res, nil
}

func sendAttempt(baseURL, id, password string) (domain.AttemptRes, error) {
	var res domain.AttemptRes

	resp, err := postJSON(baseURL+"/sessions/"+id+"/attempts", domain.AttemptReq{Password: password})
	if err != nil {
		return res, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusUnauthorized:
	case http.StatusNotFound:
		return res, errSessionGone
	default:
		body, _ := io.ReadAll(resp.Body)
		return res, fmt.Errorf("status %d, body: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return res, fmt.Errorf("decode response: %w", err)
	}
	return res, nil
}

// runCheck opens a session and prompts until the service accepts a
// password or locks the session.
func runCheck(baseURL string, v domain.Variant, c *console.Console) (bool, error) {
	session, err := createSession(baseURL, v)
	if err != nil {
		return false, fmt.Errorf("create session: %w", err)
	}

	c.Printf("=== Remote %s check ===\n", v)
	c.Printf("You have %d attempts\n\n", session.MaxAttempts)

	for {
		input, err := c.ReadSecret("Enter password: ")
		if err != nil {
			// end of input reads as an empty line
			input = ""
		}

		res, err := sendAttempt(baseURL, session.ID, input)
		if errors.Is(err, errSessionGone) {
			c.Println("✗ Session expired or locked!")
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("send attempt: %w", err)
		}

		switch {
		case res.OK:
			c.Println("✓ Access granted!")
			return true, nil
		case res.Locked:
			c.Println("✗ Too many wrong passwords, locked!")
			return false, nil
		default:
			c.Printf("✗ Wrong password! %d attempts left\n", res.Remaining)
		}
	}
}
