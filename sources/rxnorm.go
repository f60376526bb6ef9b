package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	rxnormBaseURL      = "https://rxnav.nlm.nih.gov/REST"
	interactionBaseURL = "https://lhncbc.nlm.nih.gov/RxNav/APIs/api/interaction"
)

// RxNormClient wraps the NLM RxNorm REST API.
type RxNormClient struct {
	apiClient
	baseURL        string
	interactionURL string
}

// NewRxNormClient creates an RxNorm adapter with the default endpoints.
func NewRxNormClient(timeout time.Duration) *RxNormClient {
	return &RxNormClient{
		apiClient:      newAPIClient("rxnorm", timeout),
		baseURL:        rxnormBaseURL,
		interactionURL: interactionBaseURL,
	}
}

// Term types we surface in search results: branded/clinical drugs and packs.
var searchTermTypes = map[string]bool{
	"SBD":  true,
	"SCD":  true,
	"BPCK": true,
	"GPCK": true,
}

// Search queries the drugs endpoint and returns normalized results. Callers
// enforce the two-character minimum; the adapter does not re-validate.
func (c *RxNormClient) Search(ctx context.Context, term string) []MedicationResult {
	searchURL := fmt.Sprintf("%s/drugs.json?name=%s", c.baseURL, url.QueryEscape(term))

	var resp struct {
		DrugGroup struct {
			ConceptGroup []struct {
				TTY               string `json:"tty"`
				ConceptProperties []struct {
					RxCUI    string `json:"rxcui"`
					Name     string `json:"name"`
					Synonym  string `json:"synonym"`
					TTY      string `json:"tty"`
					Language string `json:"language"`
				} `json:"conceptProperties"`
			} `json:"conceptGroup"`
		} `json:"drugGroup"`
	}

	if err := c.getJSON(ctx, searchURL, &resp); err != nil {
		c.logDegraded("search", err)
		return []MedicationResult{}
	}

	results := make([]MedicationResult, 0, 8)
	for _, group := range resp.DrugGroup.ConceptGroup {
		if !searchTermTypes[group.TTY] {
			continue
		}
		for _, prop := range group.ConceptProperties {
			if prop.Name == "" {
				continue
			}
			results = append(results, MedicationResult{
				Source: "rxnorm",
				RxCUI:  prop.RxCUI,
				Name:   prop.Name,
				Type:   prop.TTY,
			})
		}
	}
	return results
}

// GetDetails looks up the RxNorm properties for a rxcui. A missing concept is
// a legitimate nil, not an error.
func (c *RxNormClient) GetDetails(ctx context.Context, rxcui string) *MedicationDetails {
	propURL := fmt.Sprintf("%s/rxcui/%s/properties.json", c.baseURL, url.PathEscape(rxcui))

	var resp struct {
		Properties struct {
			RxCUI    string `json:"rxcui"`
			Name     string `json:"name"`
			Synonym  string `json:"synonym"`
			TTY      string `json:"tty"`
			Language string `json:"language"`
		} `json:"properties"`
	}

	if err := c.getJSON(ctx, propURL, &resp); err != nil {
		c.logDegraded("details", err)
		return nil
	}
	if resp.Properties.RxCUI == "" || resp.Properties.Name == "" {
		return nil
	}

	return &MedicationDetails{
		RxCUI:    resp.Properties.RxCUI,
		Name:     resp.Properties.Name,
		Synonym:  resp.Properties.Synonym,
		TTY:      resp.Properties.TTY,
		Language: resp.Properties.Language,
	}
}

// GetRelated returns branded and clinical drug concepts related to a rxcui.
func (c *RxNormClient) GetRelated(ctx context.Context, rxcui string) []RelatedDrug {
	relatedURL := fmt.Sprintf("%s/rxcui/%s/related.json?tty=SBD+SCD", c.baseURL, url.PathEscape(rxcui))

	var resp struct {
		RelatedGroup struct {
			ConceptGroup []struct {
				TTY               string `json:"tty"`
				ConceptProperties []struct {
					RxCUI string `json:"rxcui"`
					Name  string `json:"name"`
					TTY   string `json:"tty"`
				} `json:"conceptProperties"`
			} `json:"conceptGroup"`
		} `json:"relatedGroup"`
	}

	if err := c.getJSON(ctx, relatedURL, &resp); err != nil {
		c.logDegraded("related", err)
		return []RelatedDrug{}
	}

	related := make([]RelatedDrug, 0, 8)
	for _, group := range resp.RelatedGroup.ConceptGroup {
		for _, prop := range group.ConceptProperties {
			if prop.Name == "" {
				continue
			}
			related = append(related, RelatedDrug{
				RxCUI: prop.RxCUI,
				Name:  prop.Name,
				TTY:   prop.TTY,
			})
		}
	}
	return related
}

// GenericEquivalent resolves a (possibly branded) name to its active
// ingredient name, e.g. "Lipitor" to "atorvastatin". Empty string means the
// name could not be resolved.
func (c *RxNormClient) GenericEquivalent(ctx context.Context, name string) string {
	idURL := fmt.Sprintf("%s/rxcui.json?name=%s&search=2", c.baseURL, url.QueryEscape(name))

	var idResp struct {
		IDGroup struct {
			RxNormID []string `json:"rxnormId"`
		} `json:"idGroup"`
	}
	if err := c.getJSON(ctx, idURL, &idResp); err != nil {
		c.logDegraded("generic_equivalent", err)
		return ""
	}
	if len(idResp.IDGroup.RxNormID) == 0 {
		return ""
	}

	ingURL := fmt.Sprintf("%s/rxcui/%s/related.json?tty=IN",
		c.baseURL, url.PathEscape(idResp.IDGroup.RxNormID[0]))

	var ingResp struct {
		RelatedGroup struct {
			ConceptGroup []struct {
				ConceptProperties []struct {
					Name string `json:"name"`
				} `json:"conceptProperties"`
			} `json:"conceptGroup"`
		} `json:"relatedGroup"`
	}
	if err := c.getJSON(ctx, ingURL, &ingResp); err != nil {
		c.logDegraded("generic_equivalent", err)
		return ""
	}
	for _, group := range ingResp.RelatedGroup.ConceptGroup {
		for _, prop := range group.ConceptProperties {
			if prop.Name != "" {
				return prop.Name
			}
		}
	}
	return ""
}

// GetInteractions fetches drug-drug interaction warnings for one rxcui.
// The upstream repeats pairs, so results are de-duplicated by drug pair.
func (c *RxNormClient) GetInteractions(ctx context.Context, rxcui string) []Interaction {
	checkURL := fmt.Sprintf("%s/interaction.json?rxcui=%s", c.interactionURL, url.QueryEscape(rxcui))

	var resp struct {
		InteractionTypeGroup []struct {
			InteractionType []struct {
				InteractionPair []struct {
					InteractionConcept []struct {
						MinConceptItem struct {
							Name  string `json:"name"`
							RxCUI string `json:"rxcui"`
						} `json:"minConceptItem"`
					} `json:"interactionConcept"`
					Description string `json:"description"`
				} `json:"interactionPair"`
			} `json:"interactionType"`
		} `json:"interactionTypeGroup"`
	}

	if err := c.getJSON(ctx, checkURL, &resp); err != nil {
		c.logDegraded("interactions", err)
		return []Interaction{}
	}

	var interactions []Interaction
	seen := make(map[string]bool)

	for _, group := range resp.InteractionTypeGroup {
		for _, it := range group.InteractionType {
			for _, pair := range it.InteractionPair {
				if len(pair.InteractionConcept) < 2 {
					continue
				}
				d1 := pair.InteractionConcept[0].MinConceptItem.Name
				d2 := pair.InteractionConcept[1].MinConceptItem.Name

				key := strings.ToLower(d1 + "|" + d2)
				if seen[key] {
					continue
				}
				seen[key] = true

				interactions = append(interactions, Interaction{
					Drug1:       d1,
					Drug2:       d2,
					Description: pair.Description,
				})
			}
		}
	}
	return interactions
}
