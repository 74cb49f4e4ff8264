package publishers

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, raw string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestLoadRegistryEnabledFilter(t *testing.T) {
	path := writeFile(t, "publishers.yaml", `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: http
    enabled: true
    http:
      url: https://example.com/2
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "http2" {
		t.Fatalf("expected only http2 enabled, got %#v", enabled)
	}
	if enabled[0].HTTP.Method != httpDefaultMethod || enabled[0].HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("expected http defaults applied, got %#v", enabled[0].HTTP)
	}
}

func TestLoadRegistryInlineAWSConfig(t *testing.T) {
	path := writeFile(t, "publishers.yaml", `
publishers:
  - id: queue
    type: SQS
    sqs:
      uri: " https://sqs.eu-central-1.amazonaws.com/123/board "
      region: eu-central-1
  - id: topic
    type: sns
    sns:
      topic_arn: arn:aws:sns:eu-central-1:123:board
      region: eu-central-1
      endpoint: http://localhost:4566
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	queue, ok := reg.ByID("queue")
	if !ok {
		t.Fatalf("queue publisher not found")
	}
	if queue.Type != TypeSQS || queue.SQS.Region != "eu-central-1" || queue.SQS.QueueURL != "https://sqs.eu-central-1.amazonaws.com/123/board" {
		t.Fatalf("unexpected sqs config %#v", queue.SQS)
	}
	topic, _ := reg.ByID("topic")
	if topic.SNS.Endpoint != "http://localhost:4566" {
		t.Fatalf("unexpected sns config %#v", topic.SNS)
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := writeFile(t, "publishers.json", `{"publishers":[
  {"id":"ps","type":"gcp_pubsub","gcp_pubsub":{"project_id":"proj","topic":"board"}}
]}`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	all := reg.All()
	if len(all) != 1 || all[0].GCPPubSub.Topic != "board" || !all[0].EnabledValue() {
		t.Fatalf("unexpected registry %#v", all)
	}
}

func TestLoadRegistryRejectsDuplicates(t *testing.T) {
	path := writeFile(t, "publishers.yml", `
publishers:
  - id: a
    type: http
    http: {url: https://example.com}
  - id: a
    type: http
    http: {url: https://example.com}
`)
	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestFromFileSkipsDisabled(t *testing.T) {
	path := writeFile(t, "publishers.yaml", `
publishers:
  - id: off
    type: sns
    enabled: false
    sns:
      topic_arn: arn:aws:sns:eu-central-1:123:board
      region: eu-central-1
  - id: hook
    type: http
    http:
      url: https://example.com/hook
`)

	fanout, err := FromFile(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	if fanout.Size() != 1 {
		t.Fatalf("expected 1 enabled publisher, got %d", fanout.Size())
	}
}

func TestValidatePublisherConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  PublisherConfig
	}{
		{"missing http", PublisherConfig{ID: "h1", Type: TypeHTTP}},
		{"sqs without region", PublisherConfig{ID: "q", Type: TypeSQS, SQS: &SQSPublisherConfig{QueueURL: "u"}}},
		{"sns without topic", PublisherConfig{ID: "s", Type: TypeSNS, SNS: &SNSPublisherConfig{AWSConfig: AWSConfig{Region: "r"}}}},
		{"pubsub without project", PublisherConfig{ID: "p", Type: TypeGCPPubSub, GCPPubSub: &GCPPubSubPublisherConfig{Topic: "t"}}},
		{"unknown type", PublisherConfig{ID: "x", Type: "smtp"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
