package productindex

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/LightnXd/Zus-Chatbot-Backend/agent/domain"
)

// catalogRecord mirrors one line of the catalog input file:
// {id, name, description, price, capacity_ml?, tags[]}.
type catalogRecord struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	CapacityML  *int     `json:"capacity_ml,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// LoadCatalog reads a line-delimited JSON catalog file into Product
// records. Blank lines are skipped; any malformed line is a fatal error,
// matching the "build is idempotent; failure is fatal" contract.
func LoadCatalog(path string) ([]domain.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer f.Close()
	return ParseCatalog(f)
}

// ParseCatalog parses a line-delimited JSON catalog stream.
func ParseCatalog(r io.Reader) ([]domain.Product, error) {
	var products []domain.Product
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec catalogRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("catalog line %d: %w", lineNo, err)
		}
		if rec.ID == "" {
			return nil, fmt.Errorf("catalog line %d: missing id", lineNo)
		}
		products = append(products, domain.Product{
			ID:          rec.ID,
			Name:        rec.Name,
			Description: rec.Description,
			Price:       rec.Price,
			CapacityML:  rec.CapacityML,
			Tags:        rec.Tags,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan catalog: %w", err)
	}
	return products, nil
}
