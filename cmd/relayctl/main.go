package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type client struct {
	BaseURL   string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
}

func (c *client) do(method, path string, form url.Values) (int, []byte, error) {
	endpoint := strings.TrimRight(c.BaseURL, "/") + path
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, endpoint, body)
	if err != nil {
		return 0, nil, err
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

func (c *client) print(status int, body []byte) {
	if c.OutFormat == "json" {
		var v any
		if json.Unmarshal(body, &v) == nil {
			p, _ := json.MarshalIndent(v, "", "  ")
			fmt.Println(string(p))
			return
		}
	}
	if len(body) > 0 {
		fmt.Println(string(body))
	} else {
		fmt.Printf("status=%d\n", status)
	}
}

func main() {
	var (
		baseURL = envOr("RELAY_URL", "http://localhost:4433")
		out     = envOr("RELAY_OUT", "text")
		timeout = 30 * time.Second
	)

	root := &cobra.Command{
		Use:   "relayctl",
		Short: "CLI para operar el relay OAuth2 desde la terminal",
	}

	root.PersistentFlags().StringVar(&baseURL, "url", baseURL, "URL base del relay (env RELAY_URL)")
	root.PersistentFlags().StringVar(&out, "out", out, "Formato de salida: json|text")

	// El comando redirect necesita ver el Location, no seguirlo.
	noFollow := &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	cl := &client{BaseURL: baseURL, OutFormat: out, HTTP: noFollow}

	providersCmd := &cobra.Command{
		Use:   "providers",
		Short: "Listar las plataformas configuradas",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/v1/providers", nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("providers fallo: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}

	redirectCmd := &cobra.Command{
		Use:   "redirect <platform>",
		Short: "Obtener la URL de autorización de una plataforma",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := noFollow.Get(strings.TrimRight(cl.BaseURL, "/") + "/v1/" + args[0] + "/redirect")
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusTemporaryRedirect {
				body, _ := io.ReadAll(resp.Body)
				return fmt.Errorf("redirect fallo: status=%d body=%s", resp.StatusCode, string(body))
			}
			fmt.Println(resp.Header.Get("Location"))
			return nil
		},
	}

	var tokCode, tokState, tokRefresh string
	tokenCmd := &cobra.Command{
		Use:   "token <platform>",
		Short: "Canjear un code+state o un refresh token por tokens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form := url.Values{}
			switch {
			case tokRefresh != "":
				form.Set("grant_type", "refresh_token")
				form.Set("refresh_token", tokRefresh)
			case tokCode != "" && tokState != "":
				form.Set("grant_type", "authorization_code")
				form.Set("code", tokCode)
				form.Set("state", tokState)
			default:
				return fmt.Errorf("se requiere --refresh-token, o --code y --state juntos")
			}
			status, body, err := cl.do("POST", "/v1/"+args[0]+"/token", form)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("token fallo: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}
	tokenCmd.Flags().StringVar(&tokCode, "code", "", "Authorization code devuelto por el provider")
	tokenCmd.Flags().StringVar(&tokState, "state", "", "State recibido en el callback")
	tokenCmd.Flags().StringVar(&tokRefresh, "refresh-token", "", "Refresh token previamente emitido")

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Chequear el readiness del relay",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/readyz", nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("health fallo: status=%d body=%s", status, string(body))
			}
			if cl.OutFormat == "text" {
				fmt.Println("ok")
				return nil
			}
			cl.print(status, body)
			return nil
		},
	}

	root.AddCommand(providersCmd)
	root.AddCommand(redirectCmd)
	root.AddCommand(tokenCmd)
	root.AddCommand(healthCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
