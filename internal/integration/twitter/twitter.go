// Package twitter posts the summary and charts to Twitter using OAuth1
// user-context credentials.
package twitter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dghubble/oauth1"

	"riverbot/internal/entities"
)

const (
	defaultUploadURL = "https://upload.twitter.com/1.1/media/upload.json"
	defaultStatusURL = "https://api.twitter.com/1.1/statuses/update.json"
)

// Credentials holds the four-part OAuth1 secrets for the posting account.
type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	AccessSecret   string
}

// Client publishes posts with attached media. The endpoint URLs are fields
// so tests can point the client at a mock server.
type Client struct {
	httpClient *http.Client
	UploadURL  string
	StatusURL  string
}

// NewClient creates a posting client whose requests are OAuth1-signed with
// the given credentials.
func NewClient(creds Credentials) *Client {
	config := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)
	httpClient := config.Client(oauth1.NoContext, token)
	httpClient.Timeout = 60 * time.Second

	return &Client{
		httpClient: httpClient,
		UploadURL:  defaultUploadURL,
		StatusURL:  defaultStatusURL,
	}
}

// Publish uploads each image and then creates one status carrying the text
// and every uploaded media id, in the order supplied. Any failure aborts;
// nothing is retried and no partial post is sent.
func (c *Client) Publish(text string, images []entities.ChartImage) error {
	var mediaIDs []string
	for _, img := range images {
		id, err := c.uploadMedia(img)
		if err != nil {
			return fmt.Errorf("failed to upload %s: %v", img.Filename, err)
		}
		slog.Info("uploaded media", "filename", img.Filename, "mediaID", id)
		mediaIDs = append(mediaIDs, id)
	}

	if err := c.createStatus(text, mediaIDs); err != nil {
		return fmt.Errorf("failed to create status: %v", err)
	}
	return nil
}

type uploadResponse struct {
	MediaIDString string `json:"media_id_string"`
}

func (c *Client) uploadMedia(img entities.ChartImage) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("media", img.Filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(img.PNG); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	res, err := c.httpClient.Post(c.UploadURL, writer.FormDataContentType(), &body)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", apiError(res)
	}

	var upload uploadResponse
	if err := json.NewDecoder(res.Body).Decode(&upload); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %v", err)
	}
	if upload.MediaIDString == "" {
		return "", fmt.Errorf("upload response missing media id")
	}
	return upload.MediaIDString, nil
}

type statusResponse struct {
	IDString string `json:"id_str"`
}

func (c *Client) createStatus(text string, mediaIDs []string) error {
	form := url.Values{}
	form.Set("status", text)
	if len(mediaIDs) > 0 {
		form.Set("media_ids", strings.Join(mediaIDs, ","))
	}

	res, err := c.httpClient.Post(c.StatusURL,
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return apiError(res)
	}

	var status statusResponse
	if err := json.NewDecoder(res.Body).Decode(&status); err != nil {
		return fmt.Errorf("failed to decode status response: %v", err)
	}
	slog.Info("status posted", "statusID", status.IDString)
	return nil
}

// apiError summarizes a non-2xx API response, keeping a snippet of the body
// for the logs.
func apiError(res *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(res.Body, 512))
	return fmt.Errorf("unexpected status code: %d %s: %s",
		res.StatusCode, res.Status, strings.TrimSpace(string(snippet)))
}
