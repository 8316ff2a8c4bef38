// Command ebs-cli exercises a running ebs-ai server from the command line.
// It uploads an image to /predict or /object, or posts a condition to
// /price, and pretty-prints the JSON response.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

func main() {
	var serverURL string
	var endpoint string
	var category string
	var size, wear, grade string
	var timeout time.Duration

	flag.StringVar(&serverURL, "server", "http://localhost:8080", "ebs-ai server URL")
	flag.StringVar(&endpoint, "endpoint", "predict", "endpoint to call: predict, object, price, categories, status")
	flag.StringVar(&category, "category", "", "price category (price endpoint)")
	flag.StringVar(&size, "size", "", "item size: small, medium, large (price endpoint)")
	flag.StringVar(&wear, "wear", "", "wear level: none, light, moderate, heavy (price endpoint)")
	flag.StringVar(&grade, "grade", "", "condition grade: excellent, good, fair, poor, broken (price endpoint)")
	flag.DurationVar(&timeout, "timeout", 2*time.Minute, "request timeout")
	flag.Parse()

	client := resty.New().SetBaseURL(serverURL).SetTimeout(timeout)

	var res *resty.Response
	var err error

	switch endpoint {
	case "predict", "object":
		imagePath := flag.Arg(0)
		if imagePath == "" {
			fmt.Fprintf(os.Stderr, "Usage: ebs-cli -endpoint %s <image>\n", endpoint)
			os.Exit(1)
		}
		res, err = client.R().
			SetFile("file", imagePath).
			Post("/" + endpoint)
	case "price":
		if category == "" {
			fmt.Fprintf(os.Stderr, "Usage: ebs-cli -endpoint price -category <category> [-size ...] [-wear ...] [-grade ...]\n")
			os.Exit(1)
		}
		res, err = client.R().
			SetBody(map[string]string{
				"category": category,
				"size":     size,
				"wear":     wear,
				"grade":    grade,
			}).
			Post("/price")
	case "categories", "status":
		res, err = client.R().Get("/" + endpoint)
	default:
		fmt.Fprintf(os.Stderr, "Unknown endpoint: %s\n", endpoint)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
		os.Exit(1)
	}

	// Re-indent whatever came back, errors included.
	var parsed any
	if err := json.Unmarshal(res.Body(), &parsed); err != nil {
		fmt.Println(string(res.Body()))
	} else {
		output, _ := json.MarshalIndent(parsed, "", "  ")
		fmt.Println(string(output))
	}

	if res.IsError() {
		os.Exit(1)
	}
}
