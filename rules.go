/*
Copyright © 2024 the piamInterfaces authors.
This file is part of piamInterfaces.

piamInterfaces is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

piamInterfaces is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with piamInterfaces.  If not, see <http://www.gnu.org/licenses/>.
*/

package piam

import (
	"context"
	"fmt"

	"github.com/ctessum/requestcache"
)

// SummationRule declares that for every variable in Variables, the value
// reported for the Parent region is expected to equal the sum of the values
// reported for the Children regions.
type SummationRule struct {
	// Parent is the name of the aggregate region.
	Parent string

	// Children are the names of the regions that are expected to sum to
	// Parent. The order is preserved but has no effect on results.
	Children []string

	// Variables are the names of the variables the rule applies to.
	Variables []string
}

// variableSet returns the rule's variables as a set.
func (r SummationRule) variableSet() map[string]bool {
	set := make(map[string]bool, len(r.Variables))
	for _, v := range r.Variables {
		set[v] = true
	}
	return set
}

// validate returns a description of every problem with the rule, or nil if
// the rule is well formed. ruleDesc identifies the rule in the messages.
func (r SummationRule) validate(ruleDesc string) []string {
	var problems []string
	if len(r.Children) == 0 {
		problems = append(problems, fmt.Sprintf("%s: no child regions", ruleDesc))
	}
	if len(r.Variables) == 0 {
		problems = append(problems, fmt.Sprintf("%s: no variables", ruleDesc))
	}
	seen := make(map[string]bool)
	for _, c := range r.Children {
		if c == r.Parent {
			problems = append(problems, fmt.Sprintf("%s: parent region %q is listed as its own child", ruleDesc, r.Parent))
		}
		if seen[c] {
			problems = append(problems, fmt.Sprintf("%s: child region %q is listed more than once", ruleDesc, c))
		}
		seen[c] = true
	}
	return problems
}

// A RuleSet is a named collection of summation rules, usually loaded from a
// mapping-scheme template. Rule order is preserved and determines the order
// of mismatch reporting.
type RuleSet struct {
	// Name identifies the template the rules came from.
	Name string

	Rules []SummationRule
}

// NewRuleSet validates the given rules and assembles them into a RuleSet.
// If any rule is malformed it returns a ConfigurationError describing every
// invalid rule, so that a broken template can be repaired in one pass.
func NewRuleSet(name string, rules []SummationRule) (*RuleSet, error) {
	var problems []string
	if len(rules) == 0 {
		problems = append(problems, fmt.Sprintf("rule set %q contains no rules", name))
	}
	for i, r := range rules {
		desc := fmt.Sprintf("rule %d (parent %q)", i, r.Parent)
		problems = append(problems, r.validate(desc)...)
	}
	if len(problems) > 0 {
		return nil, &ConfigurationError{Problems: problems}
	}
	return &RuleSet{Name: name, Rules: rules}, nil
}

// FilterVariables returns a copy of the rule set restricted to the variables
// present in the given set. Rules that apply to none of the variables are
// dropped, so that reports do not mention rules irrelevant to the data
// being checked.
func (rs *RuleSet) FilterVariables(present map[string]bool) *RuleSet {
	o := &RuleSet{Name: rs.Name}
	for _, r := range rs.Rules {
		var vars []string
		for _, v := range r.Variables {
			if present[v] {
				vars = append(vars, v)
			}
		}
		if len(vars) == 0 {
			continue
		}
		o.Rules = append(o.Rules, SummationRule{
			Parent:    r.Parent,
			Children:  r.Children,
			Variables: vars,
		})
	}
	return o
}

// TemplateResolver resolves a template name to the summation rules it
// declares. Resolvers typically read a template file from disk; see
// piamutil for file-format implementations.
type TemplateResolver func(name string) (*RuleSet, error)

// TemplateCache memoizes a TemplateResolver by template name, so that a
// template is resolved at most once per run regardless of how many checks
// use it. Concurrent requests for an unresolved name are deduplicated;
// whichever caller arrives first triggers the resolution and the others
// wait for its result.
//
// Callers that need isolation, such as parallel test runs, should create
// separate caches rather than sharing one.
type TemplateCache struct {
	cache *requestcache.Cache
}

// NewTemplateCache creates a cache around the given resolver.
func NewTemplateCache(resolve TemplateResolver) *TemplateCache {
	c := requestcache.NewCache(func(ctx context.Context, req interface{}) (interface{}, error) {
		name := req.(string)
		rs, err := resolve(name)
		if err != nil {
			return nil, fmt.Errorf("piam: resolving rule template %q: %v", name, err)
		}
		return rs, nil
	}, 1, requestcache.Deduplicate(), requestcache.Memory(100))
	return &TemplateCache{cache: c}
}

// RuleSet returns the rule set for the named template, resolving it on
// first use and returning the memoized result afterwards.
func (tc *TemplateCache) RuleSet(ctx context.Context, name string) (*RuleSet, error) {
	r := tc.cache.NewRequest(ctx, name, name)
	result, err := r.Result()
	if err != nil {
		return nil, err
	}
	return result.(*RuleSet), nil
}
