package mailbox

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/jhillyerd/enmime"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/intentstack/intentstack/dto"
	"github.com/intentstack/intentstack/interfaces"
	"github.com/intentstack/intentstack/internal/logger"
	"github.com/intentstack/intentstack/internal/tracing"
	"github.com/intentstack/intentstack/internal/utils"
)

const (
	dialTimeout  = 30 * time.Second
	loginTimeout = 30 * time.Second
	inboxFolder  = "INBOX"
)

type imapClient struct {
	log logger.Logger
}

func NewIMAPClient(log logger.Logger) interfaces.MailboxClient {
	return &imapClient{
		log: log,
	}
}

// FetchUnseen opens one IMAP session, pulls every unseen message from the
// inbox and parses each into a RawMessage. Messages stay marked as seen on
// the server once fetched.
func (s *imapClient) FetchUnseen(ctx context.Context, credentials interfaces.MailboxCredentials) ([]dto.RawMessage, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "imapClient.FetchUnseen")
	defer span.Finish()
	tracing.TagComponentService(span)
	span.SetTag("server", credentials.Host)
	span.SetTag("port", credentials.Port)
	span.SetTag("tls", credentials.TLS)

	c, err := s.connect(ctx, credentials)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	defer c.Logout()

	_, err = c.Select(inboxFolder, false)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "failed to select inbox")
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	uids, err := c.Search(criteria)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "failed to search for unseen messages")
	}
	span.LogKV("result.unseenCount", len(uids))

	if len(uids) == 0 {
		return []dto.RawMessage{}, nil
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uids...)

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{
		imap.FetchEnvelope,
		imap.FetchInternalDate,
		section.FetchItem(),
	}

	messages := make(chan *imap.Message, len(uids))
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqSet, items, messages)
	}()

	var result []dto.RawMessage
	for msg := range messages {
		raw, err := s.parseMessage(msg, section)
		if err != nil {
			s.log.Warnf("Skipping unparseable message: %v", err)
			continue
		}
		result = append(result, *raw)
	}

	if err := <-done; err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrap(err, "failed to fetch messages")
	}

	return result, nil
}

func (s *imapClient) connect(ctx context.Context, credentials interfaces.MailboxCredentials) (*client.Client, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "imapClient.connect")
	defer span.Finish()
	tracing.TagComponentService(span)

	serverAddr := fmt.Sprintf("%s:%d", credentials.Host, credentials.Port)

	dialer := &net.Dialer{
		Timeout:   dialTimeout,
		KeepAlive: 30 * time.Second,
	}

	var c *client.Client
	var err error
	if credentials.TLS {
		tlsConfig := &tls.Config{
			ServerName: credentials.Host,
		}
		c, err = client.DialWithDialerTLS(dialer, serverAddr, tlsConfig)
	} else {
		c, err = client.DialWithDialer(dialer, serverAddr)
	}
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, errors.Wrapf(err, "failed to connect to %s", serverAddr)
	}

	c.Timeout = loginTimeout
	if err := c.Login(credentials.Username, credentials.Password); err != nil {
		c.Logout()
		tracing.TraceErr(span, err)
		return nil, errors.Wrapf(err, "failed to login as %s", credentials.Username)
	}
	// No timeout for fetch operations
	c.Timeout = 0

	return c, nil
}

func (s *imapClient) parseMessage(msg *imap.Message, section *imap.BodySectionName) (*dto.RawMessage, error) {
	body := msg.GetBody(section)
	if body == nil {
		return nil, errors.New("message has no body section")
	}

	envelope, err := enmime.ReadEnvelope(body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse MIME envelope")
	}

	raw := dto.RawMessage{
		MessageID:     utils.NormalizeMessageID(envelope.GetHeader("Message-Id")),
		Subject:       envelope.GetHeader("Subject"),
		BodyText:      envelope.Text,
		BodyHTML:      envelope.HTML,
		HasAttachment: len(envelope.Attachments) > 0,
	}

	if raw.MessageID == "" && msg.Envelope != nil {
		raw.MessageID = utils.NormalizeMessageID(msg.Envelope.MessageId)
	}
	if raw.MessageID == "" {
		return nil, errors.New("message has no Message-Id header")
	}

	if addrs, err := envelope.AddressList("From"); err == nil && len(addrs) > 0 {
		raw.From = addrs[0].Address
	}
	if addrs, err := envelope.AddressList("To"); err == nil {
		for _, addr := range addrs {
			raw.To = append(raw.To, addr.Address)
		}
	}

	if !msg.InternalDate.IsZero() {
		receivedAt := msg.InternalDate.UTC()
		raw.ReceivedAt = &receivedAt
	}

	raw.Subject = strings.TrimSpace(raw.Subject)
	return &raw, nil
}
