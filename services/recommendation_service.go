package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

type RecService struct {
	client *http.Client
	token  string
	model  string
}

func NewRecService() *RecService {
	return &RecService{
		client: &http.Client{Timeout: 15 * time.Second},
		token:  os.Getenv("HUGGINGFACE_TOKEN"),
		model:  "google/flan-t5-small",
	}
}

// GetRecs summarizes today's planned menu and its verdict, then asks the HF
// Inference API for practical low-PHE adjustments. Advisory text only — it
// never feeds back into scoring or validation.
func (r *RecService) GetRecs(userID uint, menu *MenuService, norms *NormsService) ([]string, error) {
	if r.token == "" {
		return nil, fmt.Errorf("HUGGINGFACE_TOKEN not set")
	}

	today := dayStart(time.Now())
	norm, err := norms.ActiveFor(userID)
	if err != nil {
		return nil, err
	}
	day, err := menu.GetDay(userID, today)
	if err != nil {
		// no plan today: still ask for generic guidance
		day = nil
	}
	res := ValidateDay(norm, day)

	// build prompt
	var sb bytes.Buffer
	sb.WriteString("Today's planned PKU menu:\n")
	if day == nil {
		sb.WriteString("- (no menu generated yet)\n")
	} else {
		for _, slot := range day.Slots {
			for _, it := range slot.Entries {
				sb.WriteString(fmt.Sprintf(
					"- %s (%s): %.0fg, %.0f mg PHE, %.0f kcal\n",
					it.ItemName, slot.Name, it.PlannedGrams, it.PheMg, it.Kcal,
				))
			}
		}
	}
	if norm != nil {
		sb.WriteString(fmt.Sprintf("\nDaily PHE limit: %.0f mg. Verdict: %s.\n", norm.PheLimitMgPerDay, res.Level))
	}
	sb.WriteString("\nSuggest 3-5 practical swaps or additions that keep phenylalanine low while maintaining calories. Return plain bullet points.")

	body := map[string]any{
		"inputs": sb.String(),
		"parameters": map[string]any{
			"max_new_tokens": 128,
			"temperature":    0.2,
		},
	}
	b, _ := json.Marshal(body)

	req, _ := http.NewRequest(
		"POST",
		fmt.Sprintf("https://api-inference.huggingface.co/models/%s", r.model),
		bytes.NewReader(b),
	)
	req.Header.Set("Authorization", "Bearer "+r.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-wait-for-model", "true")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hf request error: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read hf response error: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var hfErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBytes, &hfErr) == nil && hfErr.Error != "" {
			return nil, fmt.Errorf("hf api error (%d): %s", resp.StatusCode, hfErr.Error)
		}
		return nil, fmt.Errorf("hf api error (%d): %s", resp.StatusCode, string(respBytes))
	}

	var hfOut []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(respBytes, &hfOut); err != nil {
		bodyPreview := string(respBytes)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		return nil, fmt.Errorf("decode hf response error: %v | body: %s", err, bodyPreview)
	}
	if len(hfOut) == 0 || strings.TrimSpace(hfOut[0].GeneratedText) == "" {
		return nil, fmt.Errorf("empty recommendations from hf")
	}

	var recs []string
	for _, line := range strings.Split(hfOut[0].GeneratedText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimLeft(line, "-•* \t")
		if line != "" {
			recs = append(recs, line)
		}
	}
	return recs, nil
}
