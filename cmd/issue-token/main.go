package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/stemsi/historico-backend/internal/config"
	"github.com/stemsi/historico-backend/internal/model"
	"github.com/stemsi/historico-backend/internal/service"
	"golang.org/x/term"
)

// issue-token mints an admin JWT for local development and scripted access.
// Authentication proper is handled by the school's identity provider.
func main() {
	var (
		subject = flag.String("sub", "", "token subject (operator id)")
		name    = flag.String("name", "", "operator display name")
		perms   = flag.String("perms", "", "comma-separated permissions (default: all)")
		ttl     = flag.Duration("ttl", 0, "token lifetime (default: JWT_EXPIRY_HOURS)")
	)
	flag.Parse()

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()
	if *ttl > 0 {
		cfg.JWTExpiry = *ttl
	}

	// ─── CLI Input ─────────────────────────────────────────────────────
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	reader := bufio.NewReader(os.Stdin)

	if *subject == "" && interactive {
		fmt.Fprint(os.Stderr, "Enter operator ID: ")
		line, _ := reader.ReadString('\n')
		*subject = strings.TrimSpace(line)
	}
	if *subject == "" {
		fmt.Fprintln(os.Stderr, "Error: operator ID is required (-sub)")
		os.Exit(2)
	}
	if *name == "" && interactive {
		fmt.Fprint(os.Stderr, "Enter display name (optional): ")
		line, _ := reader.ReadString('\n')
		*name = strings.TrimSpace(line)
	}

	granted, err := parsePermissions(*perms)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	token, err := service.NewAuthService(cfg).GenerateAdminToken(*subject, *name, granted)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to sign token: %v\n", err)
		os.Exit(1)
	}

	if interactive {
		fmt.Fprintf(os.Stderr, "Token for %s valid until %s with %s\n",
			*subject, time.Now().Add(cfg.JWTExpiry).Format(time.RFC3339), strings.Join(granted, ", "))
	}
	fmt.Println(token)
}

func parsePermissions(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return model.PermissionStrings(model.AllPermissions), nil
	}

	known := make(map[string]bool)
	for _, p := range model.PermissionStrings(model.AllPermissions) {
		known[p] = true
	}

	var out []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !known[p] {
			return nil, fmt.Errorf("unknown permission %q (known: %s)", p, strings.Join(model.PermissionStrings(model.AllPermissions), ", "))
		}
		out = append(out, p)
	}
	return out, nil
}
