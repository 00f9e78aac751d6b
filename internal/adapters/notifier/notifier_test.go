package notifier

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/eventreg/internal/domain/model"
	"github.com/okian/eventreg/internal/domain/participant"
	"github.com/okian/eventreg/pkg/logger"
)

type fakeSender struct {
	channelID string
	content   string
	options   int
	err       error
}

func (f *fakeSender) ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.channelID = channelID
	f.content = content
	f.options = len(options)
	if f.err != nil {
		return nil, f.err
	}
	return &discordgo.Message{ChannelID: channelID, Content: content}, nil
}

func sampleNotice(kind model.NoticeKind) model.Notice {
	return model.Notice{
		Kind: kind,
		Participant: participant.Participant{
			ID:               "p-1",
			Name:             "Ada Lovelace",
			Email:            "ada@example.com",
			Phone:            "555-0100",
			EventName:        "GopherCon",
			RegistrationDate: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		},
		At: time.Now(),
	}
}

func TestMessage(t *testing.T) {
	Convey("Message renders each notice kind", t, func() {
		So(Message(sampleNotice(model.NoticeRegistered)), ShouldContainSubstring, "**Status:** registered")
		So(Message(sampleNotice(model.NoticeUpdated)), ShouldContainSubstring, "updated their registration")
		So(Message(sampleNotice(model.NoticeCancelled)), ShouldContainSubstring, "cancelled their registration")

		msg := Message(sampleNotice(model.NoticeRegistered))
		So(msg, ShouldContainSubstring, "Ada Lovelace <ada@example.com>")
		So(msg, ShouldContainSubstring, "**Event:** GopherCon")
		So(msg, ShouldContainSubstring, "2024-03-01 09:30 UTC")
	})
}

func TestDiscord(t *testing.T) {
	Convey("Given a Discord notifier", t, func() {
		Convey("NewDiscord rejects missing credentials", func() {
			_, err := NewDiscord("", "chan")
			So(errors.Is(err, ErrMissingToken), ShouldBeTrue)
			_, err = NewDiscord("token", "")
			So(errors.Is(err, ErrMissingChannel), ShouldBeTrue)
		})

		Convey("NewDiscord builds a session without connecting", func() {
			d, err := NewDiscord("token", "chan")
			So(err, ShouldBeNil)
			So(d, ShouldNotBeNil)
		})

		sender := &fakeSender{}
		d := newDiscord(sender, "chan-42")

		Convey("Notify posts the rendered message to the channel", func() {
			So(d.Notify(context.Background(), sampleNotice(model.NoticeRegistered)), ShouldBeNil)
			So(sender.channelID, ShouldEqual, "chan-42")
			So(sender.content, ShouldEqual, Message(sampleNotice(model.NoticeRegistered)))
			So(sender.options, ShouldEqual, 1)
		})

		Convey("Notify wraps send failures", func() {
			sender.err = errors.New("rate limited")
			err := d.Notify(context.Background(), sampleNotice(model.NoticeUpdated))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "rate limited")
		})
	})
}

func TestLog(t *testing.T) {
	Convey("Log notifier writes the notice through the logger", t, func() {
		var buf bytes.Buffer
		So(logger.Init(logger.WithOutput(&buf)), ShouldBeNil)

		n := NewLog(nil)
		So(n.Notify(context.Background(), sampleNotice(model.NoticeCancelled)), ShouldBeNil)
		So(buf.String(), ShouldContainSubstring, "participant cancelled")
		So(buf.String(), ShouldContainSubstring, "participantID=p-1")
		So(buf.String(), ShouldContainSubstring, "logger=notifier")
	})
}
