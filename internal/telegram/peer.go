package telegram

import (
	"fmt"
	"sync"

	"github.com/gotd/td/tg"
)

// peerCache remembers input peers seen in messages. Callback updates do not
// always carry the entities needed to address the chat again.
type peerCache struct {
	mu    sync.RWMutex
	peers map[int64]tg.InputPeerClass
}

func newPeerCache() *peerCache {
	return &peerCache{peers: make(map[int64]tg.InputPeerClass)}
}

func (c *peerCache) put(id int64, p tg.InputPeerClass) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.peers[id] = p
}

func (c *peerCache) get(id int64) (tg.InputPeerClass, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.peers[id]
	return p, ok
}

// resolve prefers the update's entities and falls back to the cache.
func (c *peerCache) resolve(peer tg.PeerClass, e tg.Entities) (tg.InputPeerClass, error) {
	id := peerID(peer)
	in, err := resolvePeer(peer, e)
	if err == nil {
		c.put(id, in)
		return in, nil
	}
	if cached, ok := c.get(id); ok {
		return cached, nil
	}
	return nil, err
}

// peerID maps a peer to the Bot API style chat id.
func peerID(peer tg.PeerClass) int64 {
	switch p := peer.(type) {
	case *tg.PeerUser:
		return p.UserID
	case *tg.PeerChat:
		return -p.ChatID
	case *tg.PeerChannel:
		return -1000000000000 - p.ChannelID
	default:
		return 0
	}
}

// resolvePeer converts a PeerClass to InputPeerClass using the provided entities.
func resolvePeer(peer tg.PeerClass, entities tg.Entities) (tg.InputPeerClass, error) {
	switch p := peer.(type) {
	case *tg.PeerUser:
		user, ok := entities.Users[p.UserID]
		if !ok {
			return nil, fmt.Errorf("user %d not found in entities", p.UserID)
		}
		return &tg.InputPeerUser{
			UserID:     user.ID,
			AccessHash: user.AccessHash,
		}, nil
	case *tg.PeerChat:
		return &tg.InputPeerChat{ChatID: p.ChatID}, nil
	case *tg.PeerChannel:
		channel, ok := entities.Channels[p.ChannelID]
		if !ok {
			return nil, fmt.Errorf("channel %d not found in entities", p.ChannelID)
		}
		return &tg.InputPeerChannel{
			ChannelID:  channel.ID,
			AccessHash: channel.AccessHash,
		}, nil
	default:
		return nil, fmt.Errorf("unknown peer type: %T", peer)
	}
}

// getMsgID digs the id of the message we just sent out of the response.
func getMsgID(updates tg.UpdatesClass) int {
	switch u := updates.(type) {
	case *tg.UpdateShortSentMessage:
		return u.ID
	case *tg.Updates:
		for _, update := range u.Updates {
			switch m := update.(type) {
			case *tg.UpdateNewMessage:
				if msg, ok := m.Message.(*tg.Message); ok {
					return msg.ID
				}
			case *tg.UpdateNewChannelMessage:
				if msg, ok := m.Message.(*tg.Message); ok {
					return msg.ID
				}
			case *tg.UpdateMessageID:
				return m.ID
			}
		}
	}
	return 0
}

func senderID(msg *tg.Message) int64 {
	if from, ok := msg.GetFromID(); ok {
		return peerID(from)
	}
	return peerID(msg.PeerID)
}
