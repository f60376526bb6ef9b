package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const rxclassBaseURL = "https://rxnav.nlm.nih.gov/REST/rxclass"

// RxClassClient wraps the RxClass API, used to suggest therapeutic
// alternatives by shared drug class membership.
type RxClassClient struct {
	apiClient
	baseURL string
}

func NewRxClassClient(timeout time.Duration) *RxClassClient {
	return &RxClassClient{
		apiClient: newAPIClient("rxclass", timeout),
		baseURL:   rxclassBaseURL,
	}
}

// classFor returns the first ATC class id and name for a drug name.
func (c *RxClassClient) classFor(ctx context.Context, drugName string) (id, name string) {
	classURL := fmt.Sprintf("%s/class/byDrugName.json?drugName=%s&relaSource=ATC",
		c.baseURL, url.QueryEscape(drugName))

	var resp struct {
		RxClassDrugInfoList struct {
			RxClassDrugInfo []struct {
				RxClassMinConceptItem struct {
					ClassID   string `json:"classId"`
					ClassName string `json:"className"`
				} `json:"rxclassMinConceptItem"`
			} `json:"rxclassDrugInfo"`
		} `json:"rxclassDrugInfoList"`
	}

	if err := c.getJSON(ctx, classURL, &resp); err != nil {
		c.logDegraded("class_lookup", err)
		return "", ""
	}
	if len(resp.RxClassDrugInfoList.RxClassDrugInfo) == 0 {
		return "", ""
	}
	item := resp.RxClassDrugInfoList.RxClassDrugInfo[0].RxClassMinConceptItem
	return item.ClassID, item.ClassName
}

// FindAlternatives suggests medications in the same therapeutic class as the
// given name, excluding the queried drug itself. The list is capped at 10.
func (c *RxClassClient) FindAlternatives(ctx context.Context, drugName string) []Alternative {
	classID, className := c.classFor(ctx, drugName)
	if classID == "" {
		return []Alternative{}
	}

	membersURL := fmt.Sprintf("%s/classMembers.json?classId=%s&relaSource=ATC",
		c.baseURL, url.QueryEscape(classID))

	var resp struct {
		DrugMemberGroup struct {
			DrugMember []struct {
				MinConcept struct {
					RxCUI string `json:"rxcui"`
					Name  string `json:"name"`
				} `json:"minConcept"`
			} `json:"drugMember"`
		} `json:"drugMemberGroup"`
	}

	if err := c.getJSON(ctx, membersURL, &resp); err != nil {
		c.logDegraded("class_members", err)
		return []Alternative{}
	}

	lowered := strings.ToLower(drugName)
	alternatives := make([]Alternative, 0, 10)
	for _, member := range resp.DrugMemberGroup.DrugMember {
		name := member.MinConcept.Name
		if name == "" || strings.ToLower(name) == lowered {
			continue
		}
		alternatives = append(alternatives, Alternative{
			Name:      name,
			RxCUI:     member.MinConcept.RxCUI,
			ClassName: className,
		})
		if len(alternatives) == 10 {
			break
		}
	}
	return alternatives
}
