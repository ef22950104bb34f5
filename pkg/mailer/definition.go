package mailer

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// MessengerDefinition describes a messenger as plain data.
type MessengerDefinition struct {
	Name         string            `json:"name,omitempty" yaml:"name,omitempty"`
	Subject      string            `json:"subject,omitempty" yaml:"subject,omitempty"`
	DispatchTime string            `json:"dispatch_time,omitempty" yaml:"dispatch_time,omitempty"`
	Recipients   []RecipientRecord `json:"recipients,omitempty" yaml:"recipients,omitempty"`
	Tos          []RecipientRecord `json:"tos,omitempty" yaml:"tos,omitempty"`
	CCs          []RecipientRecord `json:"ccs,omitempty" yaml:"ccs,omitempty"`
	BCCs         []RecipientRecord `json:"bccs,omitempty" yaml:"bccs,omitempty"`
}

// Definition describes a whole request as plain data, typically loaded from a
// YAML or JSON file.
type Definition struct {
	From         Address               `json:"from" yaml:"from"`
	ReplyTo      Address               `json:"reply_to,omitempty" yaml:"reply_to,omitempty"`
	Subject      string                `json:"subject,omitempty" yaml:"subject,omitempty"`
	DispatchTime string                `json:"dispatch_time,omitempty" yaml:"dispatch_time,omitempty"`
	HTML         string                `json:"html,omitempty" yaml:"html,omitempty"`
	Markdown     string                `json:"markdown,omitempty" yaml:"markdown,omitempty"`
	Text         string                `json:"text,omitempty" yaml:"text,omitempty"`
	Messengers   []MessengerDefinition `json:"messengers" yaml:"messengers"`
}

// ParseDefinition decodes a YAML (or JSON) request definition.
// Unknown keys are rejected.
func ParseDefinition(data []byte) (*Definition, error) {
	var def Definition
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return nil, errors.Join(ErrInvalidDefinition, err)
	}
	return &def, nil
}

// Build turns the definition into a Request. The request is not compiled.
func (d *Definition) Build() (*Request, error) {
	if d.HTML != "" && d.Markdown != "" {
		return nil, fmt.Errorf("%w: html and markdown are mutually exclusive", ErrInvalidDefinition)
	}

	req := NewRequest().
		SetFrom(d.From.Email, d.From.Name).
		SetReplyTo(d.ReplyTo.Email, d.ReplyTo.Name).
		SetSubject(d.Subject).
		SetDispatchTime(d.DispatchTime)

	if d.Markdown != "" {
		if err := req.SetMarkdown(d.Markdown); err != nil {
			return nil, err
		}
	} else {
		req.SetBody(d.HTML)
	}
	if d.Text != "" {
		req.SetAlt(d.Text)
	}

	for i, md := range d.Messengers {
		if _, err := req.CreateMessenger(md); err != nil {
			return nil, fmt.Errorf("messengers[%d]: %w", i, err)
		}
	}

	return req, nil
}
