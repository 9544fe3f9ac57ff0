package client_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/bff/internal/client"
	"basegraph.app/bff/internal/model"
)

var _ = Describe("Client", func() {
	var (
		server   *httptest.Server
		status   int
		respBody string
		received model.GenerationRequest
		path     string
		rawQuery string
	)

	BeforeEach(func() {
		status = http.StatusOK
		respBody = `{"success":true,"data":"query { a }"}`
		received = model.GenerationRequest{}

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			rawQuery = r.URL.RawQuery
			if r.Method == http.MethodPost {
				raw, _ := io.ReadAll(r.Body)
				_ = json.Unmarshal(raw, &received)
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = io.WriteString(w, respBody)
		}))
		DeferCleanup(server.Close)
	})

	newClient := func() *client.Client {
		c, err := client.New(server.URL)
		Expect(err).NotTo(HaveOccurred())
		return c
	}

	Describe("New", func() {
		It("rejects URLs without an http scheme", func() {
			_, err := client.New("localhost:8080")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Generate", func() {
		req := model.GenerationRequest{Schema: "type Query { a: Int }", UserStory: "get a"}

		It("returns the server's success envelope", func() {
			result := newClient().Generate(context.Background(), req)

			Expect(result).To(Equal(model.GenerationResult{Success: true, Data: "query { a }"}))
			Expect(path).To(Equal("/api/v1/generate-query"))
			Expect(received).To(Equal(req))
		})

		It("passes through a structured error from a non-2xx response", func() {
			status = http.StatusBadGateway
			respBody = `{"success":false,"error":"rate limited","details":"{\"error\":\"rate limited\"}"}`

			result := newClient().Generate(context.Background(), req)

			Expect(result.Success).To(BeFalse())
			Expect(result.Error).To(Equal("rate limited"))
			Expect(result.Details).To(Equal(`{"error":"rate limited"}`))
		})

		It("passes through validation messages", func() {
			status = http.StatusBadRequest
			respBody = `{"success":false,"error":"Please upload a user story file"}`

			result := newClient().Generate(context.Background(), req)

			Expect(result).To(Equal(model.Failed("Please upload a user story file")))
		})

		It("uses the generic message when the error body is not JSON", func() {
			status = http.StatusInternalServerError
			respBody = `<html>oops</html>`

			result := newClient().Generate(context.Background(), req)

			Expect(result).To(Equal(model.Failed(client.MsgGeneric)))
		})

		It("uses the generic message when a non-2xx body carries no error", func() {
			status = http.StatusServiceUnavailable
			respBody = `{}`

			result := newClient().Generate(context.Background(), req)

			Expect(result).To(Equal(model.Failed(client.MsgGeneric)))
		})

		It("uses the generic message for a 2xx body that is not an envelope", func() {
			respBody = `not json`

			result := newClient().Generate(context.Background(), req)

			Expect(result).To(Equal(model.Failed(client.MsgGeneric)))
		})

		It("reports connection failures", func() {
			c := newClient()
			server.Close()

			result := c.Generate(context.Background(), req)

			Expect(result).To(Equal(model.Failed(client.MsgConnectionFailure)))
		})
	})

	Describe("History", func() {
		It("decodes records and sends the limit", func() {
			respBody = `{"success":true,"data":[{"id":"42","schema":"s","userStory":"u","generatedQuery":"q","createdAt":"2024-03-01T12:00:00Z"}]}`

			records, err := newClient().History(context.Background(), 5)

			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal("/api/v1/history"))
			Expect(rawQuery).To(Equal("limit=5"))
			Expect(records).To(HaveLen(1))
			Expect(records[0].ID).To(Equal(int64(42)))
			Expect(records[0].GeneratedQuery).To(Equal("q"))
		})

		It("omits the limit when not positive", func() {
			respBody = `{"success":true,"data":[]}`

			records, err := newClient().History(context.Background(), 0)

			Expect(err).NotTo(HaveOccurred())
			Expect(rawQuery).To(BeEmpty())
			Expect(records).To(BeEmpty())
		})

		It("returns the server's error message", func() {
			status = http.StatusBadRequest
			respBody = `{"success":false,"error":"limit must be an integer"}`

			_, err := newClient().History(context.Background(), 3)

			Expect(err).To(MatchError("limit must be an integer"))
		})
	})
})
