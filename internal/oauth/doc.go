// Package oauth implements the authorization-code exchange against each
// supported platform's token endpoint. One exchanger per platform, selected
// through a registry; transport failures get a single retry, exchange
// rejections do not.
package oauth
