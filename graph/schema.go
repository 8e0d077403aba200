// Package graph binds the collaboration domain to its GraphQL contract.
// The schema is built programmatically, resolvers translate between GraphQL
// conventions (null for absence) and the service layer ((value, ok) pairs).
package graph

import (
	"collab-lab/domain"
	"collab-lab/services"

	"github.com/graphql-go/graphql"
	"github.com/samber/lo"
)

// NewSchema wires the query and mutation roots over the given services.
func NewSchema(queries services.IQueryService, mutations services.IMutationService) (graphql.Schema, error) {
	statusEnum := graphql.NewEnum(graphql.EnumConfig{
		Name:        "Status",
		Description: "Presence state advertised by a user.",
		Values: graphql.EnumValueConfigMap{
			"ONLINE":  &graphql.EnumValueConfig{Value: domain.StatusOnline},
			"AWAY":    &graphql.EnumValueConfig{Value: domain.StatusAway},
			"BUSY":    &graphql.EnumValueConfig{Value: domain.StatusBusy},
			"OFFLINE": &graphql.EnumValueConfig{Value: domain.StatusOffline},
		},
	})

	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"nickname": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user, ok := p.Source.(*domain.User)
					if !ok {
						return nil, nil
					}
					return user.Nickname, nil
				},
			},
			"displayName": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user, ok := p.Source.(*domain.User)
					if !ok || user.DisplayName == "" {
						return nil, nil
					}
					return user.DisplayName, nil
				},
			},
			"status": &graphql.Field{
				Type: graphql.NewNonNull(statusEnum),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user, ok := p.Source.(*domain.User)
					if !ok {
						return nil, nil
					}
					return user.Status, nil
				},
			},
		},
	})

	channelType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Channel",
		Fields: graphql.Fields{
			"name": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					channel, ok := p.Source.(*domain.Channel)
					if !ok {
						return nil, nil
					}
					return channel.Name, nil
				},
			},
			"description": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					channel, ok := p.Source.(*domain.Channel)
					if !ok || channel.Description == "" {
						return nil, nil
					}
					return channel.Description, nil
				},
			},
			"members": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(userType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					channel, ok := p.Source.(*domain.Channel)
					if !ok {
						return []*domain.User{}, nil
					}
					return channel.Members(), nil
				},
			},
		},
	})

	destinationUnion := graphql.NewUnion(graphql.UnionConfig{
		Name:        "Destination",
		Description: "Where a message was addressed to, a user or a channel.",
		Types:       []*graphql.Object{userType, channelType},
		ResolveType: func(p graphql.ResolveTypeParams) *graphql.Object {
			switch p.Value.(type) {
			case *domain.User:
				return userType
			case *domain.Channel:
				return channelType
			}
			return nil
		},
	})

	messageType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Message",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					message, ok := messageFromSource(p.Source)
					if !ok {
						return nil, nil
					}
					return message.ID.String(), nil
				},
			},
			"contents": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					message, ok := messageFromSource(p.Source)
					if !ok {
						return nil, nil
					}
					return message.Contents, nil
				},
			},
			"lang": &graphql.Field{
				Type:        graphql.String,
				Description: "ISO 639-1 language code detected when the message was posted.",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					message, ok := messageFromSource(p.Source)
					if !ok || message.Lang == "" {
						return nil, nil
					}
					return message.Lang, nil
				},
			},
			"createdAt": &graphql.Field{
				Type: graphql.NewNonNull(graphql.DateTime),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					message, ok := messageFromSource(p.Source)
					if !ok {
						return nil, nil
					}
					return message.CreatedAt, nil
				},
			},
			"sender": &graphql.Field{
				Type:        userType,
				Description: "Resolved live, null when the sender no longer resolves.",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					message, ok := messageFromSource(p.Source)
					if !ok {
						return nil, nil
					}
					sender, ok := queries.GetUser(message.Sender)
					if !ok {
						return nil, nil
					}
					return sender, nil
				},
			},
			"destination": &graphql.Field{
				Type:        destinationUnion,
				Description: "Resolved live, null when the destination no longer resolves.",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					message, ok := messageFromSource(p.Source)
					if !ok {
						return nil, nil
					}
					switch message.Destination.Kind {
					case domain.KindChannel:
						if channel, ok := queries.GetChannel(message.Destination.Key); ok {
							return channel, nil
						}
					case domain.KindUser:
						if user, ok := queries.GetUser(message.Destination.Key); ok {
							return user, nil
						}
					}
					return nil, nil
				},
			},
		},
	})

	// Messages hang off users and channels, both referencing messageType,
	// which references them back. Adding the fields after construction
	// breaks the cycle.
	userType.AddFieldConfig("messages", &graphql.Field{
		Type:        graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(messageType))),
		Description: "Most recent messages addressed to this user, oldest first.",
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			user, ok := p.Source.(*domain.User)
			if !ok {
				return []domain.Message{}, nil
			}
			return queries.GetMessages(domain.UserDestination(user.Nickname))
		},
	})
	channelType.AddFieldConfig("messages", &graphql.Field{
		Type:        graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(messageType))),
		Description: "Most recent messages posted to this channel, oldest first.",
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			channel, ok := p.Source.(*domain.Channel)
			if !ok {
				return []domain.Message{}, nil
			}
			return queries.GetMessages(domain.ChannelDestination(channel.Name))
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"user": &graphql.Field{
				Type:        userType,
				Description: "Look up a user by nickname, null when unknown.",
				Args: graphql.FieldConfigArgument{
					"nickname": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					nickname, _ := p.Args["nickname"].(string)
					user, ok := queries.GetUser(nickname)
					if !ok {
						return nil, nil
					}
					return user, nil
				},
			},
			"channels": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(channelType))),
				Description: "Channels a user belongs to, empty when the user is unknown.",
				Args: graphql.FieldConfigArgument{
					"nickname": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					nickname, _ := p.Args["nickname"].(string)
					channels := queries.GetChannels(nickname)
					if channels == nil {
						channels = []*domain.Channel{}
					}
					return channels, nil
				},
			},
			"search": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(messageType))),
				Description: "Full-text search over message contents.",
				Args: graphql.FieldConfigArgument{
					"text":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					text, _ := p.Args["text"].(string)
					offset, _ := p.Args["offset"].(int)
					messages, _, err := queries.SearchMessages(p.Context, text, offset)
					if err != nil {
						return nil, err
					}
					if messages == nil {
						messages = []domain.Message{}
					}
					return messages, nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createChannel": &graphql.Field{
				Type:        graphql.NewNonNull(channelType),
				Description: "Create a channel, dropping member nicknames that do not resolve.",
				Args: graphql.FieldConfigArgument{
					"name":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"description": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"users":       &graphql.ArgumentConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					name, _ := p.Args["name"].(string)
					description, _ := p.Args["description"].(string)
					return mutations.CreateChannel(name, description, stringList(p.Args["users"])), nil
				},
			},
			"addUserToChannel": &graphql.Field{
				Type:        channelType,
				Description: "Join a user to a channel, null when either side is unknown.",
				Args: graphql.FieldConfigArgument{
					"channel": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"user":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					channelName, _ := p.Args["channel"].(string)
					nickname, _ := p.Args["user"].(string)
					channel, ok := mutations.AddUserToChannel(channelName, nickname)
					if !ok {
						return nil, nil
					}
					return channel, nil
				},
			},
			"removeUserFromChannel": &graphql.Field{
				Type:        channelType,
				Description: "Remove a user from a channel, null when either side is unknown.",
				Args: graphql.FieldConfigArgument{
					"channel": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"user":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					channelName, _ := p.Args["channel"].(string)
					nickname, _ := p.Args["user"].(string)
					channel, ok := mutations.RemoveUserFromChannel(channelName, nickname)
					if !ok {
						return nil, nil
					}
					return channel, nil
				},
			},
			"postMessage": &graphql.Field{
				Type:        messageType,
				Description: "Post a message to a channel or a user. The channel wins when both are given.",
				Args: graphql.FieldConfigArgument{
					"from":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"channel":  &graphql.ArgumentConfig{Type: graphql.String},
					"user":     &graphql.ArgumentConfig{Type: graphql.String},
					"contents": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					from, _ := p.Args["from"].(string)
					channel, _ := p.Args["channel"].(string)
					user, _ := p.Args["user"].(string)
					contents, _ := p.Args["contents"].(string)
					message, err := mutations.PostMessage(p.Context, domain.PostMessageCommand{
						Sender:   from,
						Channel:  channel,
						User:     user,
						Contents: contents,
					})
					if err != nil {
						return nil, err
					}
					if message == nil {
						return nil, nil
					}
					return *message, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

// messageFromSource accepts both the value shape used in lists and the
// pointer shape returned by postMessage.
func messageFromSource(src interface{}) (domain.Message, bool) {
	switch m := src.(type) {
	case domain.Message:
		return m, true
	case *domain.Message:
		if m != nil {
			return *m, true
		}
	}
	return domain.Message{}, false
}

// stringList converts a GraphQL list argument into its string items,
// silently skipping anything that is not a string.
func stringList(value interface{}) []string {
	items, ok := value.([]interface{})
	if !ok {
		return nil
	}
	return lo.FilterMap(items, func(item interface{}, _ int) (string, bool) {
		s, ok := item.(string)
		return s, ok
	})
}
